package entity

// Role names
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleMaster = "master"
)

// ListedRoles are the roles that show up in user listings and role counts.
// Master accounts are never listed.
var ListedRoles = []string{RoleUser, RoleAdmin}
