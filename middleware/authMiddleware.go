package middleware

import (
	"net/http"
	"strings"

	"mfgledger/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
	NameKey   = "name"
)

// AuthMiddleware accepts a token from the "token" cookie or a Bearer header and
// lets the request through when its role is one of roles.
func AuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token not provided"})
				c.Abort()
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
				c.Abort()
				return
			}
			token = parts[1]
		}

		claims, err := utils.ValidateToken(token)
		if err != nil || !allowed(claims.Role, roles) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.ID)
		c.Set(RoleKey, claims.Role)
		c.Set(NameKey, claims.Name)

		c.Next()
	}
}

func allowed(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AllowIPs restricts a route to the listed client addresses. An empty list lets
// nobody through.
func AllowIPs(ips []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		for _, allowedIP := range ips {
			if ip == allowedIP {
				c.Next()
				return
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}
