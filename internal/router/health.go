package router

import "github.com/gin-gonic/gin"

func (r *Router) healthRoutes(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("", r.healthHandler.Health)
		health.GET("/db", r.healthHandler.Database)
	}
}
