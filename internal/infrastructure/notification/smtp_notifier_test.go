package notification

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/bloodbank/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSMTPNotifier_Notify(t *testing.T) {
	cfg := config.NotificationConfig{
		SMTPHost: "mail.example.com",
		SMTPPort: 587,
		From:     "noreply@bloodbank.example.com",
		Username: "noreply",
		Password: "secret",
	}

	t.Run("builds and sends the message", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte

		n := NewSMTPNotifier(cfg)
		n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		}

		err := n.Notify(context.Background(), "donor@example.com", "Thank you", "Your donation was received.")
		require.NoError(t, err)

		assert.Equal(t, "mail.example.com:587", gotAddr)
		assert.Equal(t, "noreply@bloodbank.example.com", gotFrom)
		assert.Equal(t, []string{"donor@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "Subject: Thank you\r\n")
		assert.Contains(t, string(gotMsg), "Your donation was received.")
	})

	t.Run("propagates send failures", func(t *testing.T) {
		n := NewSMTPNotifier(cfg)
		n.send = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		}

		err := n.Notify(context.Background(), "donor@example.com", "s", "b")
		assert.ErrorContains(t, err, "donor@example.com")
	})

	t.Run("rejects empty recipient", func(t *testing.T) {
		n := NewSMTPNotifier(cfg)
		err := n.Notify(context.Background(), "", "s", "b")
		assert.Error(t, err)
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		n := NewSMTPNotifier(cfg)
		called := false
		n.send = func(string, smtp.Auth, string, []string, []byte) error {
			called = true
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := n.Notify(ctx, "donor@example.com", "s", "b")
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestLogNotifier_Notify(t *testing.T) {
	n := NewLogNotifier(zap.NewNop())
	err := n.Notify(context.Background(), "donor@example.com", "s", "b")
	assert.NoError(t, err)
}
