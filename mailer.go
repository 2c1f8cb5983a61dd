package actions

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MailMessage is one composed message: rendered text and HTML bodies plus
// the envelope fields a transport needs.
type MailMessage struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a composed message. Implementations should honor the
// context deadline; the dispatcher supplies one per send.
type Sender interface {
	Send(ctx context.Context, msg *MailMessage) error
}

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender configures an SMTP transport. Username may be empty for
// relays without authentication.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg *MailMessage) error {
	if err := ctx.Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "mail send cancelled")
	}

	raw := composeRawMessage(s.from, msg)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, raw); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp delivery failed").
			WithMetadata(map[string]any{"to": msg.To, "subject": msg.Subject})
	}

	return nil
}

// composeRawMessage builds a multipart/alternative payload carrying the
// text body first so simple clients pick it up.
func composeRawMessage(from string, msg *MailMessage) []byte {
	boundary := strings.ReplaceAll(uuid.New().String(), "-", "")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.TextBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// LogSender writes messages to the logger instead of a transport. Useful in
// development and when no relay is configured.
type LogSender struct {
	logger Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a logging-only sender.
func NewLogSender(logger Logger) *LogSender {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg *MailMessage) error {
	s.logger.Info("mail to=%s subject=%q", msg.To, msg.Subject)
	s.logger.Debug("mail body:\n%s", msg.TextBody)
	return nil
}
