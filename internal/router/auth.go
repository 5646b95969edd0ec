package router

import (
	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/middleware"
)

func (r *Router) authRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.Use(middleware.RateLimit(r.rateLimiter()))
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
	}
}
