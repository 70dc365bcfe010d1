package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(r gin.IRouter) {
	uploads := r.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("", handlers.UploadFile)
		uploads.POST("/avatar", handlers.UploadAvatar)
		uploads.POST("/post-media", handlers.UploadPostMedia)
		uploads.POST("/chat", handlers.UploadChatAttachment)
	}
}
