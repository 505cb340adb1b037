package model

// Permission is a capability bit flag. A role's permission set is the OR of
// its granted flags.
type Permission int

const (
	PermComment  Permission = 1 << iota // 1
	PermWrite                           // 2
	PermModerate                        // 4
	PermAdmin                           // 8
)

// HasPermission reports whether every bit of perm is set on the role.
func (r *Role) HasPermission(perm Permission) bool {
	return r.Permissions&perm == perm
}

// AddPermission grants perm. Adding a permission already present is a no-op.
func (r *Role) AddPermission(perm Permission) {
	r.Permissions |= perm
}

// RemovePermission revokes perm if present.
func (r *Role) RemovePermission(perm Permission) {
	r.Permissions &^= perm
}

// ResetPermissions clears the whole set.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}
