package actions

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActionClaims is the payload of an action token: the subject user, the one
// operation the token authorizes, and an operation-specific extra mapping.
type ActionClaims struct {
	jwt.RegisteredClaims
	Op    string            `json:"op,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Subject returns the subject claim, the ID of the user the token was
// minted for.
func (c *ActionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Operation returns the operation the token authorizes.
func (c *ActionClaims) Operation() Operation {
	return Operation(c.Op)
}

// ExtraValue returns an operation-specific payload value.
func (c *ActionClaims) ExtraValue(key string) (string, bool) {
	if c.Extra == nil {
		return "", false
	}
	v, ok := c.Extra[key]
	return v, ok
}

// Expires returns the expiration time. Tokens issued without a TTL carry no
// expiry and return the zero time.
func (c *ActionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *ActionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
