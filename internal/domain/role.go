package domain

// Role is the caller role carried in the identity token
type Role string

const (
	RoleConsumer Role = "consumer" // Holds a wallet, redeems and withdraws
	RoleMerchant Role = "merchant" // Also mints vouchers
	RoleAdmin    Role = "admin"    // Everything, plus withdrawal review
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleMerchant, RoleAdmin:
		return true
	}
	return false
}
