package validation

import (
	"net/url"
	"strings"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
	"github.com/nahidhasan98/webhook-shunt/internal/models"
)

// FormPayloadPrefix wraps the JSON document in form-encoded deliveries
const FormPayloadPrefix = "payload="

// PushEventType is the only event type that is processed
const PushEventType = "push"

var newlineRemover = strings.NewReplacer("\r", "", "\n", "")

// Validator provides validation methods
type Validator struct{}

// New creates a new validator instance
func New() *Validator {
	return &Validator{}
}

// IsPushEvent reports whether the event type header names a push
func (v *Validator) IsPushEvent(eventType string) bool {
	return strings.EqualFold(strings.TrimSpace(eventType), PushEventType)
}

// ExtractPayload URL-decodes a request body and strips the form prefix
// when present. Bodies with broken escape sequences are used as sent.
func (v *Validator) ExtractPayload(body []byte) string {
	text := string(body)
	if decoded, err := url.QueryUnescape(text); err == nil {
		text = decoded
	}

	return strings.TrimPrefix(text, FormPayloadPrefix)
}

// ShortHash returns the first seven characters of a commit hash
func (v *Validator) ShortHash(hash string) (string, *errors.AppError) {
	if len(hash) < models.ShortHashLength {
		return "", errors.InvalidHash(hash)
	}
	return hash[:models.ShortHashLength], nil
}

// SanitizeLine removes every line break so the text is one physical line
func (v *Validator) SanitizeLine(line string) string {
	return newlineRemover.Replace(line)
}
