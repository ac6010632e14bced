package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Per-call authentication headers understood by the bot's messaging endpoint
const (
	HeaderAuthEmail = "X-Auth-Email"
	HeaderAuthToken = "X-Auth-Token"
)

// RelayMessage is the body posted to the messaging endpoint
type RelayMessage struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// RelaySender posts messages to a bot's HTTP messaging endpoint. The
// underlying http.Client pools connections and serves concurrent calls.
type RelaySender struct {
	endpoint   string
	httpClient *http.Client
}

// NewRelaySender creates a relay transport. A zero timeout leaves calls unbounded.
func NewRelaySender(endpoint string, timeout time.Duration) *RelaySender {
	return &RelaySender{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts text for channel, authenticating this request only
func (r *RelaySender) Send(ctx context.Context, channel, text string, creds Credentials) error {
	body, err := json.Marshal(RelayMessage{Channel: channel, Message: text})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAuthEmail, creds.Email)
	req.Header.Set(HeaderAuthToken, creds.Token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach messaging endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("messaging endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
