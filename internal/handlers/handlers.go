package handlers

import (
	"context"

	"github.com/nahidhasan98/webhook-shunt/internal/logger"
	"github.com/nahidhasan98/webhook-shunt/internal/models"
	"github.com/nahidhasan98/webhook-shunt/internal/validation"
)

// Announcer renders one commit as an announcement line
type Announcer interface {
	Format(ctx context.Context, event *models.PushEvent, commit models.Commit) (string, error)
}

// Dispatcher delivers announcement lines to the chat channel
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) error
	Connected() bool
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	announcer  Announcer
	dispatcher Dispatcher
	transport  string
	log        *logger.Logger
	validator  *validation.Validator
}

// New creates a new handler instance. dispatcher is shared by every request.
func New(announcer Announcer, dispatcher Dispatcher, transport string, log *logger.Logger) *Handler {
	return &Handler{
		announcer:  announcer,
		dispatcher: dispatcher,
		transport:  transport,
		log:        log,
		validator:  validation.New(),
	}
}
