package auth

import (
	"fmt"
	"strings"
)

// LoginAddress synthesizes the login address for an employee id, e.g.
// "1024" -> "1024@company.test".
func LoginAddress(employeeID, domain string) string {
	return fmt.Sprintf("%s@%s", strings.ToLower(employeeID), domain)
}

// EmployeeIDFromAddress derives the employee identifier from the local part
// of a login address, upper-cased for consistency with stored business keys.
func EmployeeIDFromAddress(address string) string {
	local, _, found := strings.Cut(address, "@")
	if !found {
		local = address
	}
	return strings.ToUpper(local)
}
