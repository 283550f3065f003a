package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/auth"
)

// AuthMiddleware validates the Bearer token and loads the caller's role
// into the request context.
func AuthMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. --- Validate Token ---
		userID, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 3. --- Load Role ---
		var role string
		err = db.QueryRow("SELECT role FROM users WHERE id = ?", userID).Scan(&role)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking user"})
			}
			c.Abort()
			return
		}

		// 4. --- Success ---
		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	}
}

// SuperAdminMiddleware must run after AuthMiddleware. It admits only the
// superadmin console role.
func SuperAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role_raw, exists := c.Get("userRole")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}

		if role_raw.(string) != "superadmin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Super Admin role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
