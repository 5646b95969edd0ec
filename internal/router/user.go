package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", r.userHandler.Create)
		users.GET("/:id/profile", r.userHandler.Profile)

		protected := users.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.GET("", r.userHandler.List)
			protected.GET("/me", r.userHandler.Me)
			protected.GET("/:id", r.userHandler.GetByID)
			protected.PUT("/:id/status", r.userHandler.SetStatus)
		}
	}
}
