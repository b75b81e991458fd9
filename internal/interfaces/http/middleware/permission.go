package middleware

import (
	"net/http"

	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequirePermission creates middleware that requires a specific
// permission. Admin implies every permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that requires any of the
// specified permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	required := append([]string{identity.PermissionAdmin}, permissions...)

	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		if !claims.HasAnyPermission(required...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Caller lacks the required permission"))
			return
		}

		c.Next()
	}
}

// RequireAdmin creates middleware that only admins may pass
func RequireAdmin() gin.HandlerFunc {
	return RequireAnyPermission()
}
