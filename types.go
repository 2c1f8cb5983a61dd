package actions

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// TokenIssuer mints action tokens
type TokenIssuer interface {
	Issue(identity Identity, op Operation, ttl time.Duration, extra map[string]string) (string, error)
}

// TokenDecoder verifies an action token and extracts its claims
type TokenDecoder interface {
	Decode(token string) (*ActionClaims, error)
}

// ActionTokenService issues and validates action tokens
type ActionTokenService interface {
	TokenIssuer
	TokenDecoder
}

// Config holds account action options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetHostURL() string
	GetTokenTTL() time.Duration
	GetMailSubjectPrefix() string
	GetMailFrom() string
	GetMailWorkers() int
	GetMailQueueSize() int
	GetRedirectFallback() string
}

// SimpleConfig is a plain struct Config implementation
type SimpleConfig struct {
	SigningKey        string        `json:"signing_key"`
	Issuer            string        `json:"issuer"`
	HostURL           string        `json:"host_url"`
	TokenTTL          time.Duration `json:"token_ttl"`
	MailSubjectPrefix string        `json:"mail_subject_prefix"`
	MailFrom          string        `json:"mail_from"`
	MailWorkers       int           `json:"mail_workers"`
	MailQueueSize     int           `json:"mail_queue_size"`
	RedirectFallback  string        `json:"redirect_fallback"`
}

func (c SimpleConfig) GetSigningKey() string        { return c.SigningKey }
func (c SimpleConfig) GetIssuer() string            { return c.Issuer }
func (c SimpleConfig) GetHostURL() string           { return c.HostURL }
func (c SimpleConfig) GetTokenTTL() time.Duration   { return c.TokenTTL }
func (c SimpleConfig) GetMailSubjectPrefix() string { return c.MailSubjectPrefix }
func (c SimpleConfig) GetMailFrom() string          { return c.MailFrom }
func (c SimpleConfig) GetMailWorkers() int          { return c.MailWorkers }
func (c SimpleConfig) GetMailQueueSize() int        { return c.MailQueueSize }

func (c SimpleConfig) GetRedirectFallback() string {
	if c.RedirectFallback == "" {
		return "/"
	}
	return c.RedirectFallback
}

// Validate will run validation rules
func (c SimpleConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.HostURL, validation.Required, is.URL),
		validation.Field(&c.MailFrom, is.Email),
		validation.Field(&c.MailWorkers, validation.Min(0)),
		validation.Field(&c.MailQueueSize, validation.Min(0)),
	)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACTIONS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACTIONS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACTIONS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
