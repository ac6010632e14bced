package formatter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
	"github.com/nahidhasan98/webhook-shunt/internal/models"
)

// stubShortener maps known URLs and echoes everything else
type stubShortener struct {
	mu    sync.Mutex
	short map[string]string
	calls []string
}

func (s *stubShortener) Shorten(_ context.Context, longURL string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, longURL)
	if short, ok := s.short[longURL]; ok {
		return short
	}
	return longURL
}

func demoEvent() *models.PushEvent {
	return &models.PushEvent{
		RepositoryName: "demo",
		Branch:         "main",
		RepositoryURL:  "https://github.com/acme/demo",
	}
}

func TestFormatSingleFile(t *testing.T) {
	s := &stubShortener{}
	f := New(s)

	line, err := f.Format(context.Background(), demoEvent(), models.Commit{
		AuthorName: "alice",
		Hash:       "1234567890abcdef",
		Message:    "Fix bug",
		Modified:   []string{"src/main.go"},
	})
	require.NoError(t, err)

	assert.Equal(t, "demo: alice main * 1234567 / src/main.go: Fix bug - https://github.com/acme/demo/commit/1234567", line)
	assert.Equal(t, []string{"https://github.com/acme/demo/commit/1234567"}, s.calls)
}

func TestFormatUsesShortenedURL(t *testing.T) {
	s := &stubShortener{short: map[string]string{
		"https://github.com/acme/demo/commit/86445ed": "http://git.io/lFK7ws",
	}}
	f := New(s)

	line, err := f.Format(context.Background(), demoEvent(), models.Commit{
		AuthorName: "Greg",
		Hash:       "86445edffffffff",
		Message:    "Remove mono-specific config",
		Added:      []string{"config/a.xml"},
		Removed:    []string{"config/b.xml"},
	})
	require.NoError(t, err)

	assert.Equal(t, "demo: Greg main * 86445ed / (2 files): Remove mono-specific config - http://git.io/lFK7ws", line)
}

func TestFormatStripsNewlines(t *testing.T) {
	f := New(&stubShortener{})

	line, err := f.Format(context.Background(), demoEvent(), models.Commit{
		AuthorName: "bob",
		Hash:       "abcdef1234567",
		Message:    "Subject line\n\nBody paragraph\r\nmore",
		Added:      []string{".gitignore"},
	})
	require.NoError(t, err)

	assert.NotContains(t, line, "\n")
	assert.NotContains(t, line, "\r")
	assert.Equal(t, "demo: bob main * abcdef1 / .gitignore: Subject lineBody paragraphmore - https://github.com/acme/demo/commit/abcdef1", line)
}

func TestFormatInvalidHash(t *testing.T) {
	s := &stubShortener{}
	f := New(s)

	_, err := f.Format(context.Background(), demoEvent(), models.Commit{Hash: "abc12"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidHash))
	assert.Empty(t, s.calls, "no shortening for a rejected commit")
}

func TestDescribeFiles(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"single file", []string{"src/main.go"}, "src/main.go"},
		{"single root file", []string{"README.md"}, "README.md"},
		{"same dir", []string{"src/a.go", "src/b.go"}, "(2 files)"},
		{"root files", []string{"README.md", "LICENSE"}, "(2 files)"},
		{"two dirs", []string{"src/a.go", "docs/a.md", "docs/b.md"}, "(3 files in 2 dirs)"},
		{"root and dir", []string{"README.md", "src/a.go"}, "(2 files in 2 dirs)"},
		{"nested dirs are distinct", []string{"a/b/c.go", "a/d.go"}, "(2 files in 2 dirs)"},
		{"duplicates counted", []string{"src/a.go", "src/a.go"}, "(2 files)"},
		{"empty", nil, "(0 files)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeFiles(tt.files))
		})
	}
}

func TestDescribeFilesProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	dirName := gen.OneConstOf("src", "docs", "cmd/server", "internal/a", "x")
	fileName := gen.Identifier()

	properties.Property("files sharing one parent render as (N files)", prop.ForAll(
		func(dir string, names []string) bool {
			files := make([]string, len(names))
			for i, n := range names {
				files[i] = dir + "/" + n
			}
			return DescribeFiles(files) == fmt.Sprintf("(%d files)", len(files))
		},
		dirName,
		gopter.CombineGens(gen.SliceOfN(2, fileName), gen.SliceOf(fileName)).Map(func(v []interface{}) []string {
			return append(v[0].([]string), v[1].([]string)...)
		}),
	))

	properties.Property("N files over D parents render as (N files in D dirs)", prop.ForAll(
		func(paths []string) bool {
			if len(paths) < 2 {
				return true
			}
			dirs := map[string]bool{}
			for _, p := range paths {
				dirs[p[:strings.LastIndex(p, "/")]] = true
			}
			got := DescribeFiles(paths)
			if len(dirs) == 1 {
				return got == fmt.Sprintf("(%d files)", len(paths))
			}
			return got == fmt.Sprintf("(%d files in %d dirs)", len(paths), len(dirs))
		},
		gen.SliceOf(gopter.CombineGens(dirName, fileName).Map(func(v []interface{}) string {
			return v[0].(string) + "/" + v[1].(string)
		})),
	))

	properties.Property("a single path renders literally", prop.ForAll(
		func(path string) bool {
			return DescribeFiles([]string{path}) == path
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
