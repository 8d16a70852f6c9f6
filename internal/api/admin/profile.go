// profile.go implements the self-service account endpoints (profile view and
// update, password change) and the admin listing endpoint.
package admin

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/campus-events/campus-events/internal/auth"
	"github.com/campus-events/campus-events/internal/config"
	"github.com/campus-events/campus-events/internal/db/models"
	"github.com/campus-events/campus-events/internal/db/repositories"
	"github.com/campus-events/campus-events/internal/middleware"
)

// ProfileHandlers handles admin profile and account management endpoints
type ProfileHandlers struct {
	cfg       *config.Config
	adminRepo *repositories.AdminRepository
	auditRepo *repositories.AuditRepository
	hasher    *auth.PasswordHasher
}

// NewProfileHandlers creates a new ProfileHandlers instance
func NewProfileHandlers(cfg *config.Config, db *sqlx.DB) *ProfileHandlers {
	return &ProfileHandlers{
		cfg:       cfg,
		adminRepo: repositories.NewAdminRepository(db),
		auditRepo: repositories.NewAuditRepository(db),
		hasher:    auth.NewPasswordHasher(cfg.Auth.Password),
	}
}

func (h *ProfileHandlers) audit(c *gin.Context, adminID *string, action string, metadata map[string]interface{}) {
	if !h.cfg.Audit.Enabled {
		return
	}
	ip := c.ClientIP()
	entry := &models.AuditLog{
		AdminID:   adminID,
		Action:    action,
		Metadata:  metadata,
		IPAddress: &ip,
	}
	if err := h.auditRepo.Create(c.Request.Context(), entry); err != nil {
		slog.Warn("failed to write audit log", "action", action, "error", err)
	}
}

// @Summary      Get own profile
// @Description  Returns the authenticated admin's account in its public form.
// @Tags         Profile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success: true, data: {admin}"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/admin/profile [get]
// GetProfileHandler returns the authenticated admin's account
// GET /api/admin/profile
func (h *ProfileHandlers) GetProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		if admin == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"admin": admin.Public(),
			},
		})
	}
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

// @Summary      Update own profile
// @Description  Updates the authenticated admin's full name and/or email. The password hash is never touched by this endpoint.
// @Tags         Profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  updateProfileRequest  true  "Fields to update"
// @Success      200  {object}  map[string]interface{}  "success: true, data: {admin}"
// @Failure      400  {object}  map[string]interface{}  "Validation error or email already in use"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/profile [put]
// UpdateProfileHandler updates the authenticated admin's profile fields
// PUT /api/admin/profile
func (h *ProfileHandlers) UpdateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		if admin == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided",
			})
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid request body",
			})
			return
		}

		if req.FullName == nil && req.Email == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Nothing to update",
			})
			return
		}

		// Validate the prospective state before writing anything.
		candidate := *admin
		if req.FullName != nil {
			candidate.FullName = *req.FullName
		}
		if req.Email != nil {
			candidate.Email = *req.Email
		}
		if err := candidate.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}

		if req.Email != nil {
			taken, err := h.adminRepo.EmailTakenByOther(c.Request.Context(), *req.Email, admin.ID)
			if err != nil {
				slog.Error("profile update: email check failed", "admin_id", admin.ID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Failed to update profile",
				})
				return
			}
			if taken {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Email is already in use",
				})
				return
			}
		}

		if err := h.adminRepo.UpdateProfile(c.Request.Context(), admin.ID, req.FullName, req.Email); err != nil {
			if err == auth.ErrConflict {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Email is already in use",
				})
				return
			}
			slog.Error("profile update failed", "admin_id", admin.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to update profile",
			})
			return
		}

		updated, err := h.adminRepo.GetByID(c.Request.Context(), admin.ID)
		if err != nil || updated == nil {
			slog.Error("profile update: reload failed", "admin_id", admin.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to update profile",
			})
			return
		}

		h.audit(c, &admin.ID, models.AuditActionProfileUpdate, nil)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Profile updated successfully",
			"data": gin.H{
				"admin": updated.Public(),
			},
		})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// @Summary      Change own password
// @Description  Replaces the authenticated admin's password after verifying the current one. A wrong current password leaves the stored hash untouched and does not count toward lockout.
// @Tags         Profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  changePasswordRequest  true  "Current and new password"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Failure      400  {object}  map[string]interface{}  "Current password incorrect or new password too short"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/change-password [put]
// ChangePasswordHandler replaces the authenticated admin's password
// PUT /api/admin/change-password
func (h *ProfileHandlers) ChangePasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		if admin == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided",
			})
			return
		}

		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Please provide current and new password",
			})
			return
		}

		if !h.hasher.Verify(req.CurrentPassword, admin.PasswordHash) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Current password is incorrect",
			})
			return
		}

		if len(req.NewPassword) < h.cfg.Auth.Password.MinLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("Password must be at least %d characters", h.cfg.Auth.Password.MinLength),
			})
			return
		}

		hash, err := h.hasher.Hash(req.NewPassword)
		if err != nil {
			slog.Error("password change: hashing failed", "admin_id", admin.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to change password",
			})
			return
		}

		if err := h.adminRepo.UpdatePassword(c.Request.Context(), admin.ID, hash); err != nil {
			slog.Error("password change: update failed", "admin_id", admin.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to change password",
			})
			return
		}

		slog.Info("admin changed password", "admin_id", admin.ID)
		h.audit(c, &admin.ID, models.AuditActionPasswordChange, nil)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Password changed successfully",
		})
	}
}

// @Summary      List admin accounts
// @Description  Returns all admin accounts in their public form, newest first. Requires the manage-admins capability.
// @Tags         Admins
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success: true, data: {admins, total}"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      403  {object}  map[string]interface{}  "Missing capability"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/list [get]
// ListAdminsHandler lists all admin accounts
// GET /api/admin/list
func (h *ProfileHandlers) ListAdminsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := h.adminRepo.List(c.Request.Context())
		if err != nil {
			slog.Error("failed to list admins", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to list admin accounts",
			})
			return
		}

		public := make([]models.AdminPublic, 0, len(admins))
		for _, a := range admins {
			public = append(public, a.Public())
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"admins": public,
				"total":  len(public),
			},
		})
	}
}
