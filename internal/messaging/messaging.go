// Package messaging delivers announcement lines to a chat channel.
package messaging

import (
	"context"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
	"github.com/nahidhasan98/webhook-shunt/internal/logger"
)

// Credentials identify the bot on a single send. They are attached to
// that call only and never stored on a shared transport.
type Credentials struct {
	Email string
	Token string
}

// Sender is a chat transport. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, channel, text string, creds Credentials) error
}

// Dispatcher sends lines to the configured channel as the configured bot
type Dispatcher struct {
	sender  Sender
	channel string
	creds   Credentials
	log     *logger.Logger
}

// NewDispatcher creates a dispatcher over a shared sender
func NewDispatcher(sender Sender, channel string, creds Credentials, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		channel: channel,
		creds:   creds,
		log:     log,
	}
}

// Dispatch sends one line. Failures come back as DISPATCH_FAILED.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) error {
	if err := d.sender.Send(ctx, d.channel, text, d.creds); err != nil {
		return errors.DispatchFailed(d.channel, err)
	}

	d.log.Debugf("Sent to %s: %s", d.channel, text)
	return nil
}

// Connected reports whether the underlying transport currently has a
// live session. Transports without session state are always connected.
func (d *Dispatcher) Connected() bool {
	if s, ok := d.sender.(interface{ IsConnected() bool }); ok {
		return s.IsConnected()
	}
	return true
}
