package actions

// UserIdentity adapts a User into the Identity interface for token issuance
// and capability checks.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
// A nil user yields the Guest identity, never a nil interface.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return GuestIdentity{}
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Username returns the user's username.
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.Username
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// Role returns the user's role as a string.
func (u UserIdentity) Role() string {
	if u.user == nil {
		return string(RoleGuest)
	}
	return string(u.user.Role)
}

// Confirmed reports whether the underlying account completed confirmation.
func (u UserIdentity) Confirmed() bool {
	if u.user == nil {
		return false
	}
	return u.user.Confirmed
}

// Can checks the underlying role for the given permission.
func (u UserIdentity) Can(p Permission) bool {
	if u.user == nil {
		return false
	}
	return u.user.Role.Can(p)
}

// GuestIdentity is the explicit "no logged-in user" variant. Every
// capability check fails; there is no shared base with authenticated users.
type GuestIdentity struct{}

func (GuestIdentity) ID() string       { return "" }
func (GuestIdentity) Username() string { return "" }
func (GuestIdentity) Email() string    { return "" }
func (GuestIdentity) Role() string     { return string(RoleGuest) }

// Confirmed always reports false for guests.
func (GuestIdentity) Confirmed() bool { return false }

// Can always reports false for guests.
func (GuestIdentity) Can(Permission) bool { return false }

// IsGuest reports whether the identity is the anonymous variant.
func IsGuest(identity Identity) bool {
	if identity == nil {
		return true
	}
	_, ok := identity.(GuestIdentity)
	return ok
}
