package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains the input for member login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Member                MemberInfo
}

// MemberInfo contains basic member information returned after login
type MemberInfo struct {
	ID                     uuid.UUID
	Email                  string
	DisplayName            string
	Permissions            []string
	HasConfiguredDashboard bool
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	MemberID  uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}
