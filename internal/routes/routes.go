package routes

import (
	"github.com/dnachavez/ecowaste-sub001/internal/handlers"
	"github.com/dnachavez/ecowaste-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterEngineRoutes wires the operations the admin console and the user
// header call. Identity comes from the auth gateway upstream.
func RegisterEngineRoutes(r gin.IRouter) {
	// Catalog (read: anyone; write: admins)
	r.GET("/tasks", handlers.ListTasks)
	r.GET("/badges", handlers.ListBadges)
	r.GET("/cosmetics", middleware.OptionalIdentityMiddleware(), handlers.GetCosmeticCatalog)
	r.GET("/leaderboard", handlers.GetLeaderboard)

	admin := r.Group("/admin")
	admin.Use(middleware.IdentityMiddleware(), middleware.AdminOnly())
	{
		admin.POST("/tasks", handlers.CreateTask)
		admin.PATCH("/tasks/:id", handlers.UpdateTask)
		admin.DELETE("/tasks/:id", handlers.DeleteTask)
		admin.POST("/badges", handlers.CreateBadge)
	}

	// User-scoped engine operations
	me := r.Group("")
	me.Use(middleware.IdentityMiddleware())
	{
		me.POST("/actions", middleware.ActionRateLimit(), handlers.RecordAction)
		me.GET("/progress", handlers.GetProgress)
		me.GET("/grants", handlers.GetGrants)
		me.GET("/me/game-state", handlers.GetGameState)
		me.PUT("/me/equip", handlers.Equip)

		me.GET("/notifications", handlers.GetNotifications)
		me.GET("/notifications/unread-count", handlers.GetUnreadCount)
		me.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
		me.PUT("/notifications/read-all", handlers.MarkAllNotificationsRead)
	}
}
