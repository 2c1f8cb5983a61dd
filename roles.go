package actions

// Permission is one capability a role grants.
type Permission string

const (
	// PermFollow allows following other users
	PermFollow Permission = "follow"
	// PermCollect allows collecting photos
	PermCollect Permission = "collect"
	// PermComment allows commenting on photos
	PermComment Permission = "comment"
	// PermUpload allows uploading photos
	PermUpload Permission = "upload"
	// PermModerate allows moderating other users' content
	PermModerate Permission = "moderate"
	// PermAdminister allows full administration
	PermAdminister Permission = "administer"
)

// UserRole is the user's role
type UserRole string

const (
	// RoleGuest is an anonymous visitor (view only)
	RoleGuest UserRole = "guest"
	// RoleLocked is a sanctioned account (follow, collect)
	RoleLocked UserRole = "locked"
	// RoleUser is a regular account (follow, collect, comment, upload)
	RoleUser UserRole = "user"
	// RoleModerator additionally moderates content
	RoleModerator UserRole = "moderator"
	// RoleAdmin holds every permission
	RoleAdmin UserRole = "administrator"
)

var rolePermissions = map[UserRole][]Permission{
	RoleGuest:     {},
	RoleLocked:    {PermFollow, PermCollect},
	RoleUser:      {PermFollow, PermCollect, PermComment, PermUpload},
	RoleModerator: {PermFollow, PermCollect, PermComment, PermUpload, PermModerate},
	RoleAdmin:     {PermFollow, PermCollect, PermComment, PermUpload, PermModerate, PermAdminister},
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Can checks if this role grants the given permission
func (r UserRole) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleGuest:     0,
		RoleLocked:    1,
		RoleUser:      2,
		RoleModerator: 3,
		RoleAdmin:     4,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleGuest,
		RoleLocked,
		RoleUser,
		RoleModerator,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
