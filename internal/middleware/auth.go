// Package middleware provides Gin HTTP middleware for authentication,
// authorization, security headers, request IDs, and metrics.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Recovery → RequestID → Metrics → Security → Auth → Permission → Handler
//
// Security headers run early so they appear on all responses including errors.
// Auth populates the admin identity in the Gin context; the permission gate
// reads from that context, so it must always run after Auth.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/campus-events/internal/auth"
	"github.com/campus-events/campus-events/internal/db/models"
	"github.com/campus-events/campus-events/internal/db/repositories"
)

// Gin context keys populated by AdminAuthMiddleware.
const (
	// AdminKey holds the *models.Admin loaded for the authenticated request.
	AdminKey = "admin"

	// AdminIDKey holds the authenticated admin's ID string.
	AdminIDKey = "admin_id"
)

// AdminAuthMiddleware authenticates requests carrying a Bearer session token.
//
// The token is verified cryptographically, then the admin account is reloaded
// from the database on every request. Role, permission, and status changes
// therefore take effect immediately rather than at next token issuance; a
// token whose account has since been deactivated or deleted stops working at
// once.
//
// On success the loaded account is stored in the Gin context under AdminKey
// (and its ID under AdminIDKey) for handlers and the permission gate.
func AdminAuthMiddleware(tokens *auth.TokenIssuer, adminRepo *repositories.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "No token provided")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			unauthorized(c, "No token provided")
			return
		}

		adminID, err := tokens.Verify(token)
		if err != nil {
			slog.Debug("token verification failed", "error", err)
			unauthorized(c, "Invalid token")
			return
		}

		admin, err := adminRepo.GetByID(c.Request.Context(), adminID)
		if err != nil {
			slog.Error("failed to load admin for token", "admin_id", adminID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Authentication failed",
			})
			return
		}

		if admin == nil {
			unauthorized(c, "Invalid token")
			return
		}

		if admin.Status != auth.StatusActive {
			slog.Info("rejected token for non-active account",
				"admin_id", admin.ID, "status", admin.Status)
			unauthorized(c, "Account is not active")
			return
		}

		c.Set(AdminKey, admin)
		c.Set(AdminIDKey, admin.ID)

		c.Next()
	}
}

// CurrentAdmin returns the admin loaded by AdminAuthMiddleware for this
// request, or nil when the route is not behind the auth middleware.
func CurrentAdmin(c *gin.Context) *models.Admin {
	v, ok := c.Get(AdminKey)
	if !ok {
		return nil
	}
	admin, _ := v.(*models.Admin)
	return admin
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
