package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterMessageRoutes(r gin.IRouter) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("/conversations", handlers.GetConversations)
		messages.GET("", handlers.GetMessages)
		messages.POST("", middleware.ChatRateLimit(), handlers.SendMessage)

		messages.GET("/unread", handlers.GetUnreadConversations)
		messages.POST("/unread/refresh", handlers.RefreshUnreadConversations)
		messages.POST("/read-all", handlers.MarkAllMessagesRead)
		messages.POST("/read/:counterpartId", handlers.MarkConversationRead)
	}
}
