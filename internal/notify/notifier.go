package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// SMTPNotifier mails the shop inbox with PLAIN auth over STARTTLS.
type SMTPNotifier struct {
	addr string
	auth smtp.Auth
	from string
	to   []string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(host, port, user, password string, to []string) *SMTPNotifier {
	if len(to) == 0 {
		to = []string{user}
	}
	return &SMTPNotifier{
		addr:     host + ":" + port,
		auth:     smtp.PlainAuth("", user, password, host),
		from:     user,
		to:       to,
		sendMail: smtp.SendMail,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.sendMail(n.addr, n.auth, n.from, n.to, n.encode(msg)); err != nil {
		return fmt.Errorf("smtp send %q: %w", msg.Subject, err)
	}
	return nil
}

func (n *SMTPNotifier) encode(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + n.from + "\r\n")
	b.WriteString("To: " + strings.Join(n.to, ", ") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogNotifier writes notifications to the application log when no mail
// server is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.log.Info("notification", zap.String("subject", msg.Subject), zap.String("body", msg.Body))
	return nil
}
