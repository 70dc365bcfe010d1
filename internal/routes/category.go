package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterCategoryRoutes(r gin.IRouter) {
	categories := r.Group("/categories")
	{
		categories.GET("", handlers.ListCategories)
		categories.GET("/resolve", handlers.ResolveCategory)
	}

	admin := r.Group("/admin/categories")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", handlers.CreateCategory)
	}
}
