package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orazbekov/ratehub/internal/access"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/utils"
)

const claimsKey = "claims"

// Authenticate requires a valid bearer token and stores the claims on the
// context for handlers and services.
func Authenticate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)

		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		if !access.CanManageUsers(claims.Role) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Claims retrieves the authenticated caller's claims, if any.
func Claims(c *gin.Context) (*utils.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.Claims)
	return claims, ok
}

// Role returns the caller's role, or empty for anonymous requests.
func Role(c *gin.Context) models.Role {
	claims, ok := Claims(c)
	if !ok {
		return ""
	}
	return claims.Role
}
