// Package api wires together the HTTP routes of the campus events admin
// service.
//
// Route grouping philosophy:
//   - /health and /version are public operational endpoints.
//   - /api/admin/login is public: it is the only way to obtain a session token.
//   - Every other /api/admin route requires a valid Bearer token; routes that
//     manage other accounts additionally require the manage-admins capability.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/campus-events/campus-events/internal/api/admin"
	"github.com/campus-events/campus-events/internal/auth"
	"github.com/campus-events/campus-events/internal/config"
	"github.com/campus-events/campus-events/internal/db/repositories"
	"github.com/campus-events/campus-events/internal/middleware"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sqlx.DB) *gin.Engine {
	router := gin.New()

	adminRepo := repositories.NewAdminRepository(db)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWT)

	authHandlers := admin.NewAuthHandlers(cfg, db, tokens)
	profileHandlers := admin.NewProfileHandlers(cfg, db)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	router.GET("/health", healthCheckHandler(db))
	router.GET("/version", versionHandler())

	adminGroup := router.Group("/api/admin")
	{
		// Public: credential exchange only.
		adminGroup.POST("/login", authHandlers.LoginHandler())

		// Everything else requires a valid session token backed by an active
		// account; the middleware reloads the account on every request.
		authed := adminGroup.Group("")
		authed.Use(middleware.AdminAuthMiddleware(tokens, adminRepo))
		{
			authed.POST("/verify-token", authHandlers.VerifyTokenHandler())
			authed.GET("/profile", profileHandlers.GetProfileHandler())
			authed.PUT("/profile", profileHandlers.UpdateProfileHandler())
			authed.PUT("/change-password", profileHandlers.ChangePasswordHandler())

			// Account management is gated on the manage-admins capability.
			authed.POST("/register",
				middleware.RequireCapability(auth.CapManageAdmins),
				authHandlers.RegisterHandler())
			authed.GET("/list",
				middleware.RequireCapability(auth.CapManageAdmins),
				profileHandlers.ListAdminsHandler())
		}
	}

	return router
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured request logging via the global slog
// logger configured in telemetry.SetupLogger.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		requestID, _ := c.Get(middleware.RequestIDKey)

		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", latency),
			slog.String("ip", c.ClientIP()),
			slog.Any("request_id", requestID),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
