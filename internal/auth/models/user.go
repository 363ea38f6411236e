package models

import (
	"net/mail"
	"strings"
	"time"

	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
)

type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// ParseRole accepts any casing and defaults an empty role to staff.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleStaff, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "role must be staff or admin")
	}
	return r, nil
}

const (
	MaxUsernameLength = 100
	MaxEmailLength    = 200
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLength = 72
)

// User is a staff account.
//
// Invariants:
//   - Username and Email are non-empty, unique and trimmed
//   - PasswordHash is a bcrypt hash, never the plain password
type User struct {
	ID           id.UserID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

func NewUser(userID id.UserID, username, email, passwordHash string, role Role, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "username is required")
	case len(username) > MaxUsernameLength:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "username must be 100 characters or less")
	case email == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email is required")
	case len(email) > MaxEmailLength:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email must be 200 characters or less")
	case passwordHash == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	case !role.IsValid():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "role must be staff or admin")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email is invalid")
	}
	return &User{
		ID:           userID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
	}, nil
}

// ValidatePassword checks the plain password before hashing.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return dErrors.New(dErrors.CodeInvariantViolation, "password must be at least 8 characters")
	case len(password) > MaxPasswordLength:
		return dErrors.New(dErrors.CodeInvariantViolation, "password must be 72 bytes or less")
	}
	return nil
}

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	TokenID      string
	ExpiresAt    time.Time
	User         *User
}
