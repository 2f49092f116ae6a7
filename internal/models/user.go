package models

import (
	"time"

	"gorm.io/gorm"
)

// Address is the delivery address embedded in the user row. City drives the
// free-shipping decision at checkout.
type Address struct {
	Street  string `gorm:"type:varchar(255)" json:"street"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Pincode string `gorm:"type:varchar(20)" json:"pincode"`
}

// User holds both customers and admins, distinguished by Role.
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	FirstName          string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName           string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone              string         `gorm:"uniqueIndex;not null" json:"phone"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	Address            Address        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Role               string         `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	CartID             uint           `gorm:"not null;index" json:"cart_id"` // the user's cart, created at registration
	Status             string         `gorm:"default:'active'" json:"status"`
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"` // bumped on logout to invalidate issued tokens
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`
	LastLoginAt        *time.Time     `json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}
