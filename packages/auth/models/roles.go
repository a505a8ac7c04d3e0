package models

// Available roles
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// GetDefaultRoles returns the roles assigned to a new user
func GetDefaultRoles() Roles {
	return Roles{RoleUser}
}

// GetAllRoles returns every role known to the system
func GetAllRoles() []string {
	return []string{
		RoleUser,
		RoleOrganizer,
		RoleAdmin,
	}
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	for _, r := range GetAllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
