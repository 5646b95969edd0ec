package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/config"
	"github.com/llamacto/llama-gin/internal/handler"
	"github.com/llamacto/llama-gin/internal/middleware"
	"github.com/llamacto/llama-gin/pkg/validation"
)

type Router struct {
	homeHandler   *handler.HomeHandler
	healthHandler *handler.HealthHandler
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	home *handler.HomeHandler,
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	user *handler.UserHandler,

	jwtMw *middleware.JWTMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		homeHandler:   home,
		healthHandler: health,
		authHandler:   auth,
		userHandler:   user,

		jwtMw:  jwtMw,
		Config: config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	validation.RegisterJSONFieldNames()
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.ContextMiddleware(r.Config.App.Timeout))
	router.Use(middleware.CORS(r.Config.App.AllowedOrigins))

	router.GET("/", r.homeHandler.Index)
	r.healthRoutes(&router.RouterGroup)

	api := router.Group("/api")
	{
		r.authRoutes(api)
		r.userRoutes(api)
	}

	return router
}

func (r *Router) rateLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(
		r.Config.RateLimit.Request,
		time.Duration(r.Config.RateLimit.Duration)*time.Second,
	)
}
