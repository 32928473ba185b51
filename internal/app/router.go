// internal/app/router.go
package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dashboardHandler "labadmin-service/internal/handlers/dashboard"
	flaggingHandler "labadmin-service/internal/handlers/flagging"
	profileHandler "labadmin-service/internal/handlers/profile"
	userHandler "labadmin-service/internal/handlers/user"
	"labadmin-service/internal/middleware"
	"labadmin-service/internal/websocket"
)

type Handlers struct {
	UserHandler      *userHandler.UserHandler
	ProfileHandler   *profileHandler.ProfileHandler
	DashboardHandler *dashboardHandler.DashboardHandler
	FlaggingHandler  *flaggingHandler.FlaggingHandler
	WSHandler        *websocket.Handler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.AuthMiddleware.Auth(), h.WSHandler.Serve)

	// ==================== Users ====================
	users := api.Group("/users")
	users.Use(h.AuthMiddleware.Auth())
	{
		users.GET("", h.UserHandler.ListUsers)
		users.GET("/detail",
			h.AuthMiddleware.RequirePrivilege(middleware.PrivilegeViewUser, middleware.PrivilegeManageUser),
			h.UserHandler.GetDetail)

		// Mutations
		manage := users.Group("")
		manage.Use(h.AuthMiddleware.RequirePrivilege(middleware.PrivilegeManageUser))
		{
			manage.DELETE("/:id", h.UserHandler.DeleteUser)
			manage.PUT("/privileges", h.UserHandler.AddPrivileges)
			manage.POST("/privileges/reset", h.UserHandler.ResetPrivileges)
			manage.GET("/privileges/history", h.UserHandler.MutationHistory)
		}

		// Privilege catalog
		users.GET("/privileges/catalog", h.UserHandler.Catalog)
		users.GET("/privileges/available",
			h.AuthMiddleware.RequirePrivilege(middleware.PrivilegeViewUser, middleware.PrivilegeManageUser),
			h.UserHandler.Available)
	}

	// ==================== Roles ====================
	roles := api.Group("/roles")
	roles.Use(h.AuthMiddleware.Auth())
	{
		roles.GET("", h.UserHandler.Roles)
	}

	// ==================== Profile ====================
	profile := api.Group("/profile")
	profile.Use(h.AuthMiddleware.Auth())
	{
		profile.GET("", h.ProfileHandler.GetProfile)
		profile.PATCH("", h.ProfileHandler.UpdateProfile)
	}

	// ==================== Dashboard ====================
	dashboard := api.Group("/dashboard")
	dashboard.Use(h.AuthMiddleware.Auth())
	{
		dashboard.GET("/summary", h.DashboardHandler.Summary)
		dashboard.GET("/charts", h.DashboardHandler.Charts)
	}

	// ==================== Flagging Configs ====================
	flagging := api.Group("/flagging-configs")
	flagging.Use(h.AuthMiddleware.Auth())
	{
		flagging.GET("", h.FlaggingHandler.ListConfigs)
		flagging.POST("",
			h.AuthMiddleware.RequirePrivilege(middleware.PrivilegeManageUser),
			h.FlaggingHandler.AddConfigs)
	}
}
