package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/bloodbank/backend/internal/application/donation"
	"github.com/bloodbank/backend/internal/infrastructure/config"
)

// SMTPNotifier sends notifications as plain-text email over SMTP
type SMTPNotifier struct {
	cfg  config.NotificationConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(cfg config.NotificationConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// Notify sends an email to the recipient
func (n *SMTPNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("notification recipient cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPHost)
	}

	msg := buildMessage(n.cfg.From, recipient, subject, body)
	if err := n.send(addr, auth, n.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send notification to %s: %w", recipient, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Ensure SMTPNotifier implements Notifier
var _ donation.Notifier = (*SMTPNotifier)(nil)
