package actions

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// ActionTokensImpl implements the ActionTokenService interface
type ActionTokensImpl struct {
	signingKey []byte
	issuer     string
	logger     Logger
}

// NewActionTokens creates a new ActionTokenService instance
func NewActionTokens(signingKey []byte, issuer string, logger Logger) ActionTokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &ActionTokensImpl{
		signingKey: signingKey,
		issuer:     issuer,
		logger:     logger,
	}
}

// Issue mints a signed token authorizing one operation for one user. A zero
// ttl yields a token without expiry; callers for confirm and reset flows
// should always supply one. The extra mapping is copied into the claims,
// e.g. {new_email: "..."} for change-email tokens.
func (ts *ActionTokensImpl) Issue(identity Identity, op Operation, ttl time.Duration, extra map[string]string) (string, error) {
	if identity == nil || identity.ID() == "" {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}

	if !op.IsValid() {
		return "", errors.New("unknown action token operation", errors.CategoryBadInput).
			WithMetadata(map[string]any{"operation": string(op)})
	}

	if ttl < 0 {
		return "", errors.New("token TTL must be non-negative", errors.CategoryBadInput)
	}

	now := time.Now()
	claims := &ActionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ts.issuer,
			Subject:  identity.ID(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Op: string(op),
	}

	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	if len(extra) > 0 {
		claims.Extra = make(map[string]string, len(extra))
		for k, v := range extra {
			claims.Extra[k] = v
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign action token")
	}

	return signedString, nil
}

// Decode parses and verifies a token string. Any rejection, whether the
// signature, the shape of the payload, or the expiry, returns the single
// ErrTokenInvalid value; the underlying cause is logged for operators only.
func (ts *ActionTokensImpl) Decode(tokenString string) (*ActionClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &ActionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("action token rejected: %v", err)
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*ActionClaims)
	if !ok || !token.Valid {
		ts.logger.Debug("action token claims could not be decoded")
		return nil, ErrTokenInvalid
	}

	if !claims.Operation().IsValid() {
		ts.logger.Debug("action token carries unknown operation: %q", claims.Op)
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
