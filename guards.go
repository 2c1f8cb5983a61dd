package actions

import (
	"github.com/goliatone/go-router"
)

// AccessDecision is the result of an authorization guard. Guards replace
// ambient decorator-style wrapping: a handler calls them explicitly at the
// top and branches on the decision.
type AccessDecision string

const (
	// DecisionAllowed lets the request proceed
	DecisionAllowed AccessDecision = "allowed"
	// DecisionRequiresConfirmation blocks until the account is confirmed
	DecisionRequiresConfirmation AccessDecision = "requires-confirmation"
	// DecisionForbidden blocks outright
	DecisionForbidden AccessDecision = "forbidden"
)

// Allowed reports whether the guard passed.
func (d AccessDecision) Allowed() bool {
	return d == DecisionAllowed
}

// GuardConfirmed gates features behind account confirmation.
func GuardConfirmed(user *User) AccessDecision {
	if user == nil {
		return DecisionForbidden
	}
	if !user.Confirmed {
		return DecisionRequiresConfirmation
	}
	return DecisionAllowed
}

// GuardPermission gates a capability. Guests and unknown roles never pass.
func GuardPermission(identity Identity, perm Permission) AccessDecision {
	if identity == nil || IsGuest(identity) {
		return DecisionForbidden
	}

	role, ok := ParseRole(identity.Role())
	if !ok || !role.Can(perm) {
		return DecisionForbidden
	}

	return DecisionAllowed
}

// GuardAdmin gates administration features.
func GuardAdmin(identity Identity) AccessDecision {
	return GuardPermission(identity, PermAdminister)
}

// UserResolver extracts the current user from the request. Implementations
// usually read session middleware state; returning a nil user means guest.
type UserResolver func(ctx router.Context) (*User, error)

// BlockedHandler responds when a guard rejects the request.
type BlockedHandler func(ctx router.Context, decision AccessDecision) error

// ConfirmedRoute builds middleware that requires a confirmed account.
func ConfirmedRoute(resolve UserResolver, onBlocked BlockedHandler) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			user, err := resolve(ctx)
			if err != nil {
				return onBlocked(ctx, DecisionForbidden)
			}

			if decision := GuardConfirmed(user); !decision.Allowed() {
				return onBlocked(ctx, decision)
			}

			return hf(ctx)
		}
	}
}

// PermissionRoute builds middleware that requires one permission.
func PermissionRoute(perm Permission, resolve UserResolver, onBlocked BlockedHandler) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			user, err := resolve(ctx)
			if err != nil {
				return onBlocked(ctx, DecisionForbidden)
			}

			if decision := GuardPermission(NewIdentityFromUser(user), perm); !decision.Allowed() {
				return onBlocked(ctx, decision)
			}

			return hf(ctx)
		}
	}
}

// AdminRoute builds middleware that requires the administer permission.
func AdminRoute(resolve UserResolver, onBlocked BlockedHandler) router.MiddlewareFunc {
	return PermissionRoute(PermAdminister, resolve, onBlocked)
}
