package auth

const (
	RoleAdmin     = "admin"
	RoleEmployer  = "employer"
	RoleCandidate = "candidate"
)

// Permissions per role.
var Permissions = map[string][]string{
	RoleAdmin: {
		"users:read",
		"users:write",
		"moderation:write",
		"announcements:write",
		"support:write",
		"audit:read",
	},
	RoleEmployer: {
		"jobs:write:self",
		"applications:write:self",
		"notifications:read:self",
	},
	RoleCandidate: {
		"applications:write:self",
		"notifications:read:self",
	},
}

// HasPermission reports whether the role grants the permission.
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
