package validation

import (
	"net/url"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
)

func TestIsPushEvent(t *testing.T) {
	v := New()

	assert.True(t, v.IsPushEvent("push"))
	assert.True(t, v.IsPushEvent("PUSH"))
	assert.True(t, v.IsPushEvent("Push"))
	assert.False(t, v.IsPushEvent(""))
	assert.False(t, v.IsPushEvent("pull_request"))
	assert.False(t, v.IsPushEvent("pushed"))
}

func TestExtractPayload(t *testing.T) {
	v := New()
	doc := `{"ref":"refs/heads/main","message":"a+b & c"}`

	tests := []struct {
		name string
		body string
		want string
	}{
		{"form encoded", "payload=" + url.QueryEscape(doc), doc},
		{"raw json", `{"ref":"refs/heads/main"}`, `{"ref":"refs/heads/main"}`},
		{"raw json with escapes", `{"message":"100%25 done"}`, `{"message":"100% done"}`},
		{"broken escape kept as sent", `{"message":"100% done"}`, `{"message":"100% done"}`},
		{"prefix only at start", `{"note":"payload=x"}`, `{"note":"payload=x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ExtractPayload([]byte(tt.body)))
		})
	}
}

func TestShortHash(t *testing.T) {
	v := New()

	short, appErr := v.ShortHash("abcdef1234567")
	require.Nil(t, appErr)
	assert.Equal(t, "abcdef1", short)

	short, appErr = v.ShortHash("1234567")
	require.Nil(t, appErr)
	assert.Equal(t, "1234567", short)

	_, appErr = v.ShortHash("123456")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeInvalidHash, appErr.Code)

	_, appErr = v.ShortHash("")
	require.NotNil(t, appErr)
}

func TestShortHashProperty(t *testing.T) {
	v := New()
	properties := gopter.NewProperties(nil)

	properties.Property("short hash is the 7 character prefix", prop.ForAll(
		func(hash string) bool {
			short, appErr := v.ShortHash(hash)
			if len(hash) < 7 {
				return appErr != nil && short == ""
			}
			return appErr == nil && len(short) == 7 && strings.HasPrefix(hash, short)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestSanitizeLineProperty(t *testing.T) {
	v := New()
	properties := gopter.NewProperties(nil)

	properties.Property("no line breaks survive", prop.ForAll(
		func(parts []string) bool {
			line := v.SanitizeLine(strings.Join(parts, "\r\n"))
			return !strings.ContainsAny(line, "\r\n") && line == strings.Join(parts, "")
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
