package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v68/github"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
	"github.com/nahidhasan98/webhook-shunt/internal/parser"
)

// Webhook turns a push delivery into one chat message per commit. The
// sender always gets 202 Accepted with an empty body; anything that goes
// wrong, panics included, ends up in the log only.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Errorf("Panic while processing webhook: %v", rec)
		}
		w.WriteHeader(http.StatusAccepted)
	}()

	// Deliveries are processed to the end even if the sender hangs up
	ctx := context.WithoutCancel(r.Context())

	if err := h.processWebhook(ctx, r); err != nil {
		h.log.With("error_code", errors.CodeOf(err)).
			With("remote_addr", r.RemoteAddr).
			Error("Failed to process webhook", err)
	}
}

func (h *Handler) processWebhook(ctx context.Context, r *http.Request) error {
	if r.Method != http.MethodPost {
		return nil
	}

	if eventType := github.WebHookType(r); !h.validator.IsPushEvent(eventType) {
		h.log.Debugf("Ignoring %q event", eventType)
		return nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.MalformedPayload("failed to read request body", err)
	}
	if len(body) == 0 {
		return nil
	}

	payload := h.validator.ExtractPayload(body)

	event, err := parser.Parse(payload)
	if err != nil {
		return err
	}

	for i, commit := range event.Commits {
		line, err := h.announcer.Format(ctx, event, commit)
		if err != nil {
			return fmt.Errorf("commit %d of %d: %w", i+1, len(event.Commits), err)
		}

		if err := h.dispatcher.Dispatch(ctx, line); err != nil {
			return fmt.Errorf("commit %d of %d: %w", i+1, len(event.Commits), err)
		}
	}

	h.log.Info("Commit: " + payload)
	return nil
}
