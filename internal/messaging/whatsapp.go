package messaging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/nahidhasan98/webhook-shunt/internal/logger"
)

const (
	qrAttempts     = 5
	qrAttemptDelay = 5 * time.Second
	qrCodeLifetime = 60 * time.Second
)

// WhatsAppSender delivers lines to a WhatsApp chat through a linked
// device. The channel is a JID such as 1203630...@g.us. Credentials are
// not used: the paired session is the identity.
type WhatsAppSender struct {
	client *whatsmeow.Client
	log    *logger.Logger

	// QR codes are rendered here during pairing
	qrOut io.Writer
}

// WhatsAppOptions configures the whatsapp transport
type WhatsAppOptions struct {
	DBDriver   string
	DBDSN      string
	LogLevel   string
	DeviceName string
}

// NewWhatsAppSender opens the session store and prepares a client
func NewWhatsAppSender(ctx context.Context, opts WhatsAppOptions, log *logger.Logger) (*WhatsAppSender, error) {
	container, err := sqlstore.New(ctx, opts.DBDriver, opts.DBDSN, waLog.Stdout("Database", opts.LogLevel, true))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}

	if opts.DeviceName != "" {
		store.SetOSInfo(opts.DeviceName, [3]uint32{0, 1, 0})
		device.Platform = opts.DeviceName
	}

	w := &WhatsAppSender{
		client: whatsmeow.NewClient(device, waLog.Stdout("Client", opts.LogLevel, true)),
		log:    log,
		qrOut:  os.Stdout,
	}
	w.client.AddEventHandler(w.handleEvent)

	return w, nil
}

func (w *WhatsAppSender) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		w.log.Info("WhatsApp client connected")
	case *events.Disconnected:
		w.log.Warn("WhatsApp client disconnected", nil)
	case *events.StreamError:
		w.log.Errorf("WhatsApp stream error: %v", v)
	case *events.LoggedOut:
		w.log.Errorf("WhatsApp session logged out, reason: %v", v.Reason)
	}
}

// Connect connects an existing session, or starts QR pairing in the
// background when the store has no session yet.
func (w *WhatsAppSender) Connect(ctx context.Context) error {
	if w.client.Store.ID == nil {
		w.log.Info("No WhatsApp session found, starting QR pairing...")
		go w.pair(ctx)
		return nil
	}

	w.log.Info("Existing WhatsApp session found. Connecting...")
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect client: %w", err)
	}
	return nil
}

func (w *WhatsAppSender) pair(ctx context.Context) {
	for attempt := 1; attempt <= qrAttempts; attempt++ {
		if attempt > 1 {
			w.log.Infof("Generating new QR code (attempt %d/%d)...", attempt, qrAttempts)
			select {
			case <-ctx.Done():
				return
			case <-time.After(qrAttemptDelay):
			}
		}

		paired, cancelled := w.pairOnce(ctx)
		if cancelled {
			w.log.Info("QR pairing cancelled")
			return
		}
		if paired {
			w.log.Infof("WhatsApp pairing successful, device %s", w.client.Store.ID)
			return
		}
	}

	w.log.Error("Failed to pair WhatsApp device after multiple attempts", nil)
}

// pairOnce shows one QR code and reports (paired, cancelled)
func (w *WhatsAppSender) pairOnce(ctx context.Context) (bool, bool) {
	qrCtx, cancel := context.WithTimeout(ctx, qrCodeLifetime)
	defer cancel()

	qrChan, err := w.client.GetQRChannel(qrCtx)
	if err != nil {
		w.log.Errorf("Failed to get QR channel: %v", err)
		return false, false
	}

	if !w.client.IsConnected() {
		if err := w.client.Connect(); err != nil {
			w.log.Errorf("Failed to connect client: %v", err)
			return false, false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return false, true
		case <-qrCtx.Done():
			w.log.Warn("QR code timed out without being scanned", nil)
			return false, false
		case evt, ok := <-qrChan:
			if !ok {
				return false, ctx.Err() != nil
			}

			switch evt.Event {
			case "code":
				w.renderQR(evt.Code)
			case "success":
				return true, false
			case "timeout":
				w.log.Warn("QR code expired", nil)
				return false, false
			default:
				w.log.Infof("Pairing event: %s", evt.Event)
			}
		}
	}
}

func (w *WhatsAppSender) renderQR(code string) {
	rule := strings.Repeat("=", 64)
	fmt.Fprintln(w.qrOut, rule)
	fmt.Fprintln(w.qrOut, "Scan with WhatsApp > Settings > Linked Devices > Link a Device")
	fmt.Fprintln(w.qrOut, rule)
	qrterminal.GenerateWithConfig(code, qrterminal.Config{
		Level:      qrterminal.M,
		Writer:     w.qrOut,
		HalfBlocks: true,
		QuietZone:  1,
	})
	fmt.Fprintln(w.qrOut, rule)
}

// Send delivers text to the chat identified by channel
func (w *WhatsAppSender) Send(ctx context.Context, channel, text string, _ Credentials) error {
	jid, err := types.ParseJID(channel)
	if err != nil {
		return fmt.Errorf("invalid JID %s: %w", channel, err)
	}

	if !w.IsConnected() {
		return fmt.Errorf("whatsapp client is not connected")
	}

	msg := &waE2E.Message{Conversation: proto.String(text)}
	if _, err := w.client.SendMessage(ctx, jid, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsConnected reports whether the client has a live, logged-in session
func (w *WhatsAppSender) IsConnected() bool {
	return w.client.Store.ID != nil && w.client.IsConnected() && w.client.IsLoggedIn()
}

// Disconnect closes the connection to WhatsApp
func (w *WhatsAppSender) Disconnect() {
	w.client.Disconnect()
	w.log.Info("Disconnected from WhatsApp")
}
