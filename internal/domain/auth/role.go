package auth

// Role is the "role" claim the auth provider puts on access tokens.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// CanSettle reports whether the role may record collections and payouts.
func (r Role) CanSettle() bool {
	return r == RoleOwner || r == RoleManager
}
