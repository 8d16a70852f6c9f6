package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/campus-events/internal/auth"
)

// RequireCapability returns a Gin handler that rejects the request with 403
// unless the authenticated admin holds the given capability.
//
// The check delegates to models.Admin.HasPermission, which is the single
// authorization decision point: super_admin passes every check there, other
// roles are judged on their per-account permission flags. Must be registered
// after AdminAuthMiddleware.
func RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil {
			// Route was wired without the auth middleware. Fail closed.
			unauthorized(c, "No token provided")
			return
		}

		if !admin.HasPermission(capability) {
			slog.Info("permission denied",
				"admin_id", admin.ID,
				"role", admin.Role,
				"capability", capability,
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "You do not have permission to perform this action",
			})
			return
		}

		c.Next()
	}
}
