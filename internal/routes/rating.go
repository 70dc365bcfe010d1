package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRatingRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		users.GET("/:username/ratings", handlers.GetUserRatings)

		protected := users.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/:username/rate", handlers.RateUser)
			protected.DELETE("/:username/rate", handlers.DeleteRating)
		}
	}
}
