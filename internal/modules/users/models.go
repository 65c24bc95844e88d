// Package users provides the marketplace user store.
package users

import "time"

// Roles recognized by the marketplace.
const (
	RoleFarmer   = "farmer"
	RoleSupplier = "supplier"
	RoleBuyer    = "buyer"
	RoleAdmin    = "admin"
)

// User is a marketplace account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// IsSeller reports whether the user owns listings that the price analysis
// covers.
func (u User) IsSeller() bool {
	return u.Role == RoleFarmer || u.Role == RoleSupplier
}
