package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		users.GET("", handlers.ListDevelopers)
		users.GET("/:username", middleware.OptionalAuthMiddleware(), handlers.GetProfile)
		users.GET("/:username/posts", handlers.GetUserPosts)

		protected := users.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.PUT("/me", handlers.UpdateProfile)
		}
	}
}
