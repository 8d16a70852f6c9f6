// auth.go implements the admin session endpoints: login, registration, and
// token verification.
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
	"github.com/campus-events/campus-events/internal/telemetry"
)

// AuthHandlers handles admin authentication endpoints
type AuthHandlers struct {
	cfg       *config.Config
	adminRepo *repositories.AdminRepository
	auditRepo *repositories.AuditRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenIssuer
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(cfg *config.Config, db *sqlx.DB, tokens *auth.TokenIssuer) *AuthHandlers {
	return &AuthHandlers{
		cfg:       cfg,
		adminRepo: repositories.NewAdminRepository(db),
		auditRepo: repositories.NewAuditRepository(db),
		hasher:    auth.NewPasswordHasher(cfg.Auth.Password),
		tokens:    tokens,
	}
}

// audit writes an audit trail entry. Failures are logged and swallowed: the
// audit trail is best-effort and never fails the request that triggered it.
func (h *AuthHandlers) audit(c *gin.Context, adminID *string, action string, targetID *string, metadata map[string]interface{}) {
	if !h.cfg.Audit.Enabled {
		return
	}
	ip := c.ClientIP()
	entry := &models.AuditLog{
		AdminID:   adminID,
		Action:    action,
		TargetID:  targetID,
		Metadata:  metadata,
		IPAddress: &ip,
	}
	if err := h.auditRepo.Create(c.Request.Context(), entry); err != nil {
		slog.Warn("failed to write audit log", "action", action, "error", err)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Admin login
// @Description  Authenticate with username (or email) and password. Returns a signed session token valid for 24 hours. Five consecutive failures lock the account for two hours.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  loginRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "success: true, data: {token, admin}"
// @Failure      400  {object}  map[string]interface{}  "Missing username or password"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials, locked, or inactive account"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/login [post]
// LoginHandler authenticates an admin and issues a session token
// POST /api/admin/login
func (h *AuthHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Please provide username and password",
			})
			return
		}

		admin, err := h.adminRepo.GetByUsernameOrEmail(c.Request.Context(), req.Username)
		if err != nil {
			slog.Error("login: failed to look up account", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Login failed",
			})
			return
		}

		// Unknown account and wrong password produce the same response so the
		// API never reveals which half of the credential pair was wrong.
		if admin == nil {
			telemetry.AdminLoginsTotal.WithLabelValues(telemetry.LoginOutcomeFailure).Inc()
			if h.cfg.Audit.LogFailedLogins {
				h.audit(c, nil, models.AuditActionLoginFailed, nil,
					map[string]interface{}{"username": req.Username})
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": auth.ErrInvalidCredentials.Error(),
			})
			return
		}

		if admin.IsLocked() {
			telemetry.AdminLoginsTotal.WithLabelValues(telemetry.LoginOutcomeLocked).Inc()
			slog.Info("login rejected: account locked", "admin_id", admin.ID)
			h.audit(c, &admin.ID, models.AuditActionLoginLocked, nil, nil)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": auth.ErrAccountLocked.Error(),
			})
			return
		}

		if admin.Status != auth.StatusActive {
			telemetry.AdminLoginsTotal.WithLabelValues(telemetry.LoginOutcomeFailure).Inc()
			slog.Info("login rejected: account not active",
				"admin_id", admin.ID, "status", admin.Status)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": auth.ErrAccountInactive.Error(),
			})
			return
		}

		if !h.hasher.Verify(req.Password, admin.PasswordHash) {
			if err := h.adminRepo.RecordFailedLogin(c.Request.Context(), admin.ID,
				h.cfg.Auth.Lockout.MaxAttempts, h.cfg.Auth.Lockout.Duration); err != nil {
				slog.Error("failed to record failed login", "admin_id", admin.ID, "error", err)
			}
			telemetry.AdminLoginsTotal.WithLabelValues(telemetry.LoginOutcomeFailure).Inc()
			if h.cfg.Audit.LogFailedLogins {
				h.audit(c, &admin.ID, models.AuditActionLoginFailed, nil, nil)
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": auth.ErrInvalidCredentials.Error(),
			})
			return
		}

		if err := h.adminRepo.ResetLoginAttempts(c.Request.Context(), admin.ID); err != nil {
			slog.Error("failed to reset login attempts", "admin_id", admin.ID, "error", err)
		}

		token, err := h.tokens.Issue(admin.ID)
		if err != nil {
			slog.Error("failed to issue token", "admin_id", admin.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Login failed",
			})
			return
		}

		telemetry.AdminLoginsTotal.WithLabelValues(telemetry.LoginOutcomeSuccess).Inc()
		telemetry.TokensIssuedTotal.Inc()
		slog.Info("admin logged in", "admin_id", admin.ID, "username", admin.Username)
		h.audit(c, &admin.ID, models.AuditActionLogin, nil, nil)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"data": gin.H{
				"token": token,
				"admin": admin.Public(),
			},
		})
	}
}

type registerRequest struct {
	Username    string              `json:"username" binding:"required"`
	Email       string              `json:"email" binding:"required"`
	Password    string              `json:"password" binding:"required"`
	FullName    string              `json:"fullName" binding:"required"`
	Role        string              `json:"role"`
	Permissions *models.Permissions `json:"permissions"`
}

// @Summary      Register admin account
// @Description  Create a new admin account. Requires the manage-admins capability. Only a super_admin may create another super_admin.
// @Tags         Auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  registerRequest  true  "New account details"
// @Success      201  {object}  map[string]interface{}  "success: true, data: {admin}"
// @Failure      400  {object}  map[string]interface{}  "Validation error or duplicate username/email"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      403  {object}  map[string]interface{}  "Missing capability or forbidden role elevation"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/register [post]
// RegisterHandler creates a new admin account
// POST /api/admin/register
func (h *AuthHandlers) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		creator := middleware.CurrentAdmin(c)
		if creator == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided",
			})
			return
		}

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Please provide username, email, password, and full name",
			})
			return
		}

		role := auth.Role(req.Role)
		if req.Role == "" {
			role = auth.RoleAdmin
		}

		// Only a super_admin may mint another super_admin.
		if role == auth.RoleSuperAdmin && creator.Role != auth.RoleSuperAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Only a super admin can create super admin accounts",
			})
			return
		}

		permissions := models.DefaultPermissions()
		if req.Permissions != nil {
			permissions = *req.Permissions
		}

		admin := &models.Admin{
			Username:    req.Username,
			Email:       req.Email,
			FullName:    req.FullName,
			Role:        role,
			Permissions: permissions,
			Status:      auth.StatusActive,
			CreatedBy:   &creator.ID,
		}

		if err := admin.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}

		if len(req.Password) < h.cfg.Auth.Password.MinLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("Password must be at least %d characters", h.cfg.Auth.Password.MinLength),
			})
			return
		}

		// Pre-check for duplicates to return a clean message; the unique
		// indexes remain the race-proof backstop.
		exists, err := h.adminRepo.UsernameOrEmailExists(c.Request.Context(), req.Username, req.Email)
		if err != nil {
			slog.Error("register: duplicate check failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to create admin account",
			})
			return
		}
		if exists {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": auth.ErrConflict.Error(),
			})
			return
		}

		hash, err := h.hasher.Hash(req.Password)
		if err != nil {
			slog.Error("register: password hashing failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to create admin account",
			})
			return
		}
		admin.PasswordHash = hash

		if err := h.adminRepo.Create(c.Request.Context(), admin); err != nil {
			if err == auth.ErrConflict {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": auth.ErrConflict.Error(),
				})
				return
			}
			slog.Error("register: insert failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to create admin account",
			})
			return
		}

		slog.Info("admin account created",
			"admin_id", admin.ID, "username", admin.Username,
			"role", admin.Role, "created_by", creator.ID)
		h.audit(c, &creator.ID, models.AuditActionCreate, &admin.ID,
			map[string]interface{}{"username": admin.Username, "role": admin.Role})

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Admin account created successfully",
			"data": gin.H{
				"admin": admin.Public(),
			},
		})
	}
}

// @Summary      Verify session token
// @Description  Confirms that the presented Bearer token is valid and its account is active, and returns the current account.
// @Tags         Auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success: true, data: {admin}"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/admin/verify-token [post]
// VerifyTokenHandler confirms the current token and returns the account
// POST /api/admin/verify-token
func (h *AuthHandlers) VerifyTokenHandler() gin.HandlerFunc {
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
