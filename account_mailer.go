package actions

import (
	"fmt"
	"strings"
)

// BodyRenderer produces the text and HTML bodies for a named template.
type BodyRenderer interface {
	Render(name string, data map[string]any) (string, string, error)
}

// MailDispatcher is the non-blocking enqueue side of mail delivery.
type MailDispatcher interface {
	Dispatch(msg *MailMessage) error
}

// AccountMailer composes and dispatches the three account action emails.
// Dispatch is fire-and-forget: once a message is queued the request path
// never hears about delivery again.
type AccountMailer struct {
	cfg        Config
	renderer   BodyRenderer
	dispatcher MailDispatcher
	logger     Logger
}

// NewAccountMailer wires the renderer and dispatcher under the shared config.
func NewAccountMailer(cfg Config, renderer BodyRenderer, dispatcher MailDispatcher) *AccountMailer {
	return &AccountMailer{
		cfg:        cfg,
		renderer:   renderer,
		dispatcher: dispatcher,
		logger:     defLogger{},
	}
}

// WithLogger overrides the logger used by the mailer.
func (m *AccountMailer) WithLogger(logger Logger) *AccountMailer {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// SendConfirmEmail mails the account confirmation link. An explicit to
// address overrides the user's current one.
func (m *AccountMailer) SendConfirmEmail(user *User, token string, to ...string) error {
	return m.send(pickAddress(user, to), "Email Confirm", "emails/confirm", user, token, OperationConfirm)
}

// SendResetPasswordEmail mails the password reset link.
func (m *AccountMailer) SendResetPasswordEmail(user *User, token string) error {
	return m.send(user.Email, "Password Reset", "emails/reset_password", user, token, OperationResetPassword)
}

// SendChangeEmailEmail mails the change confirmation link, typically to the
// proposed new address.
func (m *AccountMailer) SendChangeEmailEmail(user *User, token string, to ...string) error {
	return m.send(pickAddress(user, to), "Change Email Confirm", "emails/change_email", user, token, OperationChangeEmail)
}

func (m *AccountMailer) send(to, subject, template string, user *User, token string, op Operation) error {
	link := m.ActionLink(op, token)

	textBody, htmlBody, err := m.renderer.Render(template, map[string]any{
		"user":  user,
		"token": token,
		"link":  link,
	})
	if err != nil {
		return err
	}

	msg := &MailMessage{
		To:       to,
		Subject:  m.cfg.GetMailSubjectPrefix() + subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}

	if err := m.dispatcher.Dispatch(msg); err != nil {
		m.logger.Error("mail dispatch rejected to=%s subject=%q: %v", to, subject, err)
		return err
	}

	return nil
}

// ActionLink builds the absolute URL a recipient follows to present the token.
func (m *AccountMailer) ActionLink(op Operation, token string) string {
	host := strings.TrimRight(m.cfg.GetHostURL(), "/")
	return fmt.Sprintf("%s/auth/%s/%s", host, op, token)
}

func pickAddress(user *User, to []string) string {
	if len(to) > 0 && to[0] != "" {
		return to[0]
	}
	if user != nil {
		return user.Email
	}
	return ""
}
