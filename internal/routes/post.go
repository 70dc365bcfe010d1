package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterPostRoutes(r gin.IRouter) {
	posts := r.Group("/posts")
	{
		posts.GET("", handlers.ListPosts)

		protected := posts.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", handlers.CreatePost)
			protected.GET("/saved", handlers.ListSavedPosts)
			protected.PUT("/:id", handlers.UpdatePost)
			protected.DELETE("/:id", handlers.DeletePost)
			protected.POST("/:id/like", handlers.ToggleLike)
			protected.POST("/:id/save", handlers.ToggleSave)
			protected.POST("/:id/view", handlers.RecordPostView)
			protected.POST("/:id/comments", handlers.CreateComment)
		}

		posts.GET("/:id", handlers.GetPost)
		posts.GET("/:id/comments", handlers.ListComments)
	}

	comments := r.Group("/comments")
	{
		protected := comments.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.DELETE("/:id", handlers.DeleteComment)
		}
	}
}
