package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/pkg/token"
)

const (
	AuthMemberIDKey = "auth_member_id"
	AuthRoleKey     = "auth_member_role"
)

// AuthMiddleware validates the bearer token and confirms the member still
// exists and is active. The token itself is issued by the external identity
// layer; only member id and role are trusted from it.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		var exists bool
		err = db.Table("members").
			Select("count(*) > 0").
			Where("id = ? AND is_active = ? AND deleted_at IS NULL", claims.MemberID, true).
			Find(&exists).Error
		if err != nil || !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Member not found or inactive"})
			return
		}

		c.Set(AuthMemberIDKey, claims.MemberID)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin aborts unless the authenticated member carries the admin role.
// Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(AuthRoleKey)
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}

// GetMemberIDFromContext extracts the authenticated member id from the Gin context.
func GetMemberIDFromContext(c *gin.Context) (uint, error) {
	memberID, exists := c.Get(AuthMemberIDKey)
	if !exists {
		return 0, errors.New("member ID not found in context")
	}

	id, ok := memberID.(uint)
	if !ok {
		return 0, fmt.Errorf("member ID has unexpected type: %T", memberID)
	}

	return id, nil
}

// IsAdmin reports whether the authenticated member carries the admin role.
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(AuthRoleKey)
	return role == "admin"
}
