package handler

import (
	"github.com/cms/dashboard/internal/application/identity"
	"github.com/cms/dashboard/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	authMW      gin.HandlerFunc
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, authMW gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authMW:      authMW,
	}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/auth")
	{
		public.POST("/login", h.Login)
		public.POST("/refresh", h.RefreshToken)
	}

	protected := rg.Group("/auth", h.authMW)
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)
	}
}

// Login authenticates a member and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		Member: MemberResponse{
			ID:                     result.Member.ID,
			Email:                  result.Member.Email,
			DisplayName:            result.Member.DisplayName,
			Permissions:            result.Member.Permissions,
			HasConfiguredDashboard: result.Member.HasConfiguredDashboard,
		},
	})
}

// RefreshToken exchanges a refresh token for a fresh pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identity.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RefreshTokenResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
	})
}

// Logout revokes the presented access token
func (h *AuthHandler) Logout(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	claims := middleware.GetJWTClaims(c)
	input := identity.LogoutInput{MemberID: memberID}
	if claims != nil {
		input.TokenID = claims.ID
		if claims.ExpiresAt != nil {
			input.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the authenticated member's profile
func (h *AuthHandler) Me(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.authService.CurrentMember(c.Request.Context(), memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MemberResponse{
		ID:                     info.ID,
		Email:                  info.Email,
		DisplayName:            info.DisplayName,
		Permissions:            info.Permissions,
		HasConfiguredDashboard: info.HasConfiguredDashboard,
	})
}
