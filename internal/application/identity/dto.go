package identity

import (
	"time"

	"github.com/labstock/backend/internal/domain/identity"
)

// LoginRequest contains the credentials for login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=72"`
}

// RefreshRequest carries the refresh token to exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=4,max=72"`
}

// CreateUserRequest is the payload an administrator sends to add a user
type CreateUserRequest struct {
	Username   string        `json:"username" binding:"required,min=3,max=100"`
	Password   string        `json:"password" binding:"required,min=4,max=72"`
	Role       identity.Role `json:"role" binding:"omitempty,oneof=user admin"`
	Department string        `json:"department" binding:"required,department"`
}

// ResetPasswordRequest sets a user's password without the old one
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=4,max=72"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          int64         `json:"id"`
	Username    string        `json:"username"`
	Role        identity.Role `json:"role"`
	Department  string        `json:"department"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Department:  u.Department,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
