package model

// Role is a named bundle of permissions shared by many users
type Role struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	IsDefault   bool       `gorm:"default:false;index" json:"is_default"`
	Permissions Permission `gorm:"not null;default:0" json:"permissions"`
}

// Role names as constants
const (
	RoleUser          = "User"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// DefaultRoleName is the role assigned to new accounts absent other rules.
const DefaultRoleName = RoleUser

// RoleSeed pairs a canonical role name with its granted permissions.
type RoleSeed struct {
	Name        string
	Permissions []Permission
}

// RoleSeeds defines the canonical roles in the system
var RoleSeeds = []RoleSeed{
	{Name: RoleUser, Permissions: []Permission{PermComment, PermWrite}},
	{Name: RoleModerator, Permissions: []Permission{PermComment, PermWrite, PermModerate}},
	{Name: RoleAdministrator, Permissions: []Permission{PermComment, PermWrite, PermModerate, PermAdmin}},
}

// CanonicalRoles materializes RoleSeeds into role records, resetting and
// re-granting each permission set. Exactly one of the returned roles is
// flagged as default.
func CanonicalRoles() []Role {
	roles := make([]Role, len(RoleSeeds))
	for i, seed := range RoleSeeds {
		role := Role{Name: seed.Name}
		role.ResetPermissions()
		for _, perm := range seed.Permissions {
			role.AddPermission(perm)
		}
		role.IsDefault = seed.Name == DefaultRoleName
		roles[i] = role
	}
	return roles
}
