package models

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "SuperAdmin"
	RoleAdmin      UserRole = "Admin"
	RoleUser       UserRole = "User"
	RolePending    UserRole = "Pending"
)

// ParseRole maps a raw string onto the closed role set. Comparison is
// exact: "admin" is not RoleAdmin.
func ParseRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleSuperAdmin, RoleAdmin, RoleUser, RolePending:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:100;uniqueIndex;not null"`
	FirstName    string `gorm:"size:100;not null"`
	MiddleName   string `gorm:"size:100"`
	LastName     string `gorm:"size:100;not null"`
	Address      string `gorm:"size:255"`
	Contact      string `gorm:"size:50"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
