package messaging

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/webhook-shunt/internal/logger"
)

func newTestWhatsAppSender(t *testing.T) *WhatsAppSender {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "session.db") + "?_foreign_keys=on"
	w, err := NewWhatsAppSender(context.Background(), WhatsAppOptions{
		DBDriver:   "sqlite3",
		DBDSN:      dsn,
		LogLevel:   "ERROR",
		DeviceName: "webhook-shunt-test",
	}, logger.Nop())
	require.NoError(t, err)

	return w
}

func TestWhatsAppSenderWithoutSession(t *testing.T) {
	w := newTestWhatsAppSender(t)

	assert.False(t, w.IsConnected())

	err := w.Send(context.Background(), "120363000000000000@g.us", "hello", Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")

	d := NewDispatcher(w, "120363000000000000@g.us", Credentials{}, logger.Nop())
	assert.False(t, d.Connected())
}

func TestWhatsAppSenderBadStore(t *testing.T) {
	_, err := NewWhatsAppSender(context.Background(), WhatsAppOptions{
		DBDriver: "no-such-driver",
		DBDSN:    "whatever",
	}, logger.Nop())
	assert.Error(t, err)
}

func TestWhatsAppRenderQR(t *testing.T) {
	w := newTestWhatsAppSender(t)

	var out bytes.Buffer
	w.qrOut = &out
	w.renderQR("2@pairing-code")

	assert.Contains(t, out.String(), "Linked Devices")
	assert.Greater(t, out.Len(), 200)
}
