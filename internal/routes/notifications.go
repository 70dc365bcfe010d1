package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterNotificationRoutes(r gin.IRouter) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", handlers.GetNotifications)
		notifications.GET("/unread-count", handlers.GetUnreadNotificationCount)
		notifications.PUT("/:id/read", handlers.MarkNotificationRead)
		notifications.PUT("/read-all", handlers.MarkAllNotificationsRead)
		notifications.DELETE("/:id", handlers.DeleteNotification)
	}
}
