package domain

import "time"

// RoleAdmin is the sentinel role value meaning administrator. Any other role
// string is treated as a standard employee.
const RoleAdmin = "admin"

// Employee models a staff member who can log in and operate the inventory.
//
// EmployeeID is the business key; the login address is derived from it as
// {employee_id}@{login domain}. AuthUserID references the external identity
// record and is nil when the identity was never provisioned or already lost.
type Employee struct {
	ID         int64
	EmployeeID string
	Name       string
	Role       string
	AuthUserID *string
	CreatedAt  time.Time
}

// IsAdmin reports whether the employee holds the administrator role.
func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
