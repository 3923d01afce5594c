package domain

import (
	"errors"
	"time"
)

const (
	RoleLecturer    = "lecturer"
	RoleCoordinator = "coordinator"
	RoleManager     = "manager"
	RoleHR          = "hr"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// ValidRole reports whether role is one of the known system roles.
func ValidRole(role string) bool {
	switch role {
	case RoleLecturer, RoleCoordinator, RoleManager, RoleHR:
		return true
	}
	return false
}

// User models an authenticated actor in the system. Lecturer users carry
// the LecturerID linking them to their lecturer record.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	LecturerID   string    `json:"lecturer_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
