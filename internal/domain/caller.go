package domain

// CallerContext carries the authenticated caller's identity and role for one
// session. It is supplied by the shell at login and read-only to the core.
type CallerContext struct {
	EmployeeID string
	Name       string
	Role       string
}

// IsAdmin reports whether the caller holds the administrator role.
func (c CallerContext) IsAdmin() bool {
	return c.Role == RoleAdmin
}
