package handler

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the token refresh request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// MemberResponse is the member profile returned by auth endpoints
type MemberResponse struct {
	ID                     uuid.UUID `json:"id"`
	Email                  string    `json:"email"`
	DisplayName            string    `json:"display_name"`
	Permissions            []string  `json:"permissions"`
	HasConfiguredDashboard bool      `json:"has_configured_dashboard"`
}

// LoginResponse is the login response body
type LoginResponse struct {
	Token  TokenResponse  `json:"token"`
	Member MemberResponse `json:"member"`
}

// RefreshTokenResponse is the token refresh response body
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}
