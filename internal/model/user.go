package model

import "time"

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleStudent  Role = "student"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// DefaultRoute is the screen a client of this role lands on.
func (r Role) DefaultRoute() string {
	switch r {
	case RoleOperator:
		return "/operator"
	case RoleAdmin:
		return "/admin"
	default:
		return "/orders"
	}
}

// User represents an account. Student profile fields are only
// populated for the student role.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"uniqueIndex;size:256;not null"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         Role   `gorm:"size:16;not null;index"`

	// Student profile
	RollNumber      string `gorm:"size:32"`
	Gender          string `gorm:"size:16"`
	Hostel          string `gorm:"size:64;index"`
	Room            string `gorm:"size:16"`
	ProfileComplete bool

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
