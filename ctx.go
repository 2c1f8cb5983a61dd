package actions

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// IdentityFromContext resolves the request identity. A context without a
// stored user yields the guest identity, never nil.
func IdentityFromContext(ctx context.Context) Identity {
	if user, ok := FromContext(ctx); ok {
		return NewIdentityFromUser(user)
	}
	return GuestIdentity{}
}

// RouterUser extracts the user previously stashed in router locals.
func RouterUser(ctx router.Context, key string) (*User, bool) {
	if key == "" {
		key = "user"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok
}

// CanFromContext checks a permission directly from the standard context.
func CanFromContext(ctx context.Context, perm Permission) bool {
	return GuardPermission(IdentityFromContext(ctx), perm).Allowed()
}
