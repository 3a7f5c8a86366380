package models

import "time"

// Roles a user may register with. A role is fixed at registration.
const (
	RoleAdmin = "adminRole"
	RoleUser  = "userRole"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User is an account holder. Deleting a user removes their cart lines,
// orders and addresses.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role      string    `gorm:"size:20;not null;default:userRole" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Address is a shipping address. Only its storage shape is modelled.
type Address struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AddressLine1 string    `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2 *string   `gorm:"size:255" json:"address_line2,omitempty"`
	City         string    `gorm:"size:50;not null" json:"city"`
	State        string    `gorm:"size:50;not null" json:"state"`
	PostalCode   string    `gorm:"size:20;not null" json:"postal_code"`
	Country      string    `gorm:"size:50;not null" json:"country"`
	IsDefault    bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}
