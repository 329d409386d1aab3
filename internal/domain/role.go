package domain

// Account roles. The set is fixed; there is no role administration surface.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Roles returns the fixed role set, in ascending privilege order.
func Roles() []string {
	return []string{RoleUser, RoleAdmin}
}
