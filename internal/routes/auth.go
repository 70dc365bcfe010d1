package routes

import (
	"github.com/Ismailbulbul21/somalidev-sub000/internal/handlers"
	"github.com/Ismailbulbul21/somalidev-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", middleware.AuthRateLimit(), handlers.Register)
	r.POST("/login", middleware.AuthRateLimit(), handlers.Login)
	r.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
	r.GET("/me", middleware.AuthMiddleware(), handlers.Me)

	// OAuth
	r.GET("/google/login", handlers.GoogleLogin)
	r.GET("/google/callback", handlers.GoogleCallback)

	r.GET("/github/login", handlers.GithubLogin)
	r.GET("/github/callback", handlers.GithubCallback)

	// Utils
	r.GET("/check-username", handlers.CheckUsername)
}
