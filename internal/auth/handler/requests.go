package handler

import (
	"strings"
	"time"

	"bloodconnect/internal/auth/models"
	"bloodconnect/internal/auth/service"
	dErrors "bloodconnect/pkg/domain-errors"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	switch {
	case r.Username == "":
		return dErrors.New(dErrors.CodeValidation, "username is required")
	case r.Email == "":
		return dErrors.New(dErrors.CodeValidation, "email is required")
	case r.Password == "":
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

func (r *RegisterRequest) ToCommand() service.RegisterCommand {
	return service.RegisterCommand{Username: r.Username, Email: r.Email, Password: r.Password, Role: r.Role}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "username and password are required")
	}
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return dErrors.New(dErrors.CodeValidation, "refreshToken is required")
	}
	return nil
}

type UserResponse struct {
	UserID      string     `json:"userId"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         UserResponse `json:"user"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		UserID:      u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}

func newAuthResponse(res *models.AuthResult) AuthResponse {
	return AuthResponse{
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.ExpiresAt,
		User:         newUserResponse(res.User),
	}
}
