package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	configs "github.com/llamacto/llama-gin/config"
	"github.com/llamacto/llama-gin/internal/handler"
	"github.com/llamacto/llama-gin/internal/middleware"
	"github.com/llamacto/llama-gin/internal/repository"
	"github.com/llamacto/llama-gin/internal/router"
	"github.com/llamacto/llama-gin/internal/service"
	"github.com/llamacto/llama-gin/pkg/banner"
	"github.com/llamacto/llama-gin/pkg/cache"
	"github.com/llamacto/llama-gin/pkg/circuit"
	"github.com/llamacto/llama-gin/pkg/database"
	"github.com/llamacto/llama-gin/pkg/logger"
	"github.com/llamacto/llama-gin/pkg/redis"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", config.App.Version),
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(database.Config{
		Driver:          config.Database.Connection,
		DSN:             config.DatabaseConnectionString(),
		Environment:     config.App.Environment,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database",
			zap.String("driver", config.Database.Connection),
			zap.Error(err),
		)
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	hasher := service.NewBcryptHasher(config.JWT.BcryptCost)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	seeded, err := database.Seed(seedCtx, db, database.SeedAdmin{
		Email:    config.Seed.AdminEmail,
		Password: config.Seed.AdminPassword,
		Hasher:   hasher,
	})
	cancelSeed()
	if err != nil {
		// seeding is best effort; the admin may already exist
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	} else if seeded {
		logger.GetLogger().Info("Superuser seeded", zap.String("email", config.Seed.AdminEmail))
	}

	redisClient := redis.NewClient(redis.Config{
		Enabled:      config.Redis.Enabled,
		Addr:         config.RedisAddress(),
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolTimeout:  config.Redis.PoolTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	localCache := cache.NewCache(time.Minute)
	defer localCache.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)

	// Services
	jwtService, err := service.NewJWTService(config.JWT.Secret, config.JWT.SigningAlgorithm)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize token service", zap.Error(err))
	}
	userCache := service.NewUserCache(
		redisClient,
		localCache,
		circuit.NewBreaker("user-cache", circuit.DefaultConfig(), logger.GetLogger()),
		config.Cache.Prefix,
		config.Cache.TTL,
	)

	authService := service.NewAuthService(userRepo, hasher, jwtService, config.AccessTokenTTL())
	userService := service.NewUserService(userRepo, hasher, userCache)

	// Handlers
	expose := config.ExposeErrors()
	homeHandler := handler.NewHomeHandler(config.App.Name)
	healthHandler := handler.NewHealthHandler(db, redisClient, config.App.Name, expose)
	authHandler := handler.NewAuthHandler(authService, expose)
	userHandler := handler.NewUserHandler(userService, expose)

	jwtMiddleware := middleware.NewJWTMiddleware(authService)

	r := router.NewRouter(
		homeHandler,
		healthHandler,
		authHandler,
		userHandler,

		jwtMiddleware,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              config.ServerAddress(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	_ = banner.Print(os.Stdout, banner.Info{
		Name:        config.App.Name,
		Version:     config.App.Version,
		Environment: config.App.Environment,
		Host:        config.Server.Host,
		Port:        config.Server.Port,
	})

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("host", config.Server.Host),
			zap.String("port", config.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("addr", srv.Addr),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
