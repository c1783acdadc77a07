package router

import (
	"time"

	"github.com/Payphone-Digital/userhub/config"
	"github.com/Payphone-Digital/userhub/internal/handler"
	"github.com/Payphone-Digital/userhub/internal/middleware"
	"github.com/Payphone-Digital/userhub/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	redisClient *redis.Client
	Config      *config.Config
}

func NewRouter(
	user *handler.UserHandler,
	health *handler.HealthHandler,
	redisClient *redis.Client,
	config *config.Config,
) *Router {
	return &Router{
		userHandler:   user,
		healthHandler: health,
		redisClient:   redisClient,
		Config:        config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	// Use custom logging and recovery middleware
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(
				r.redisClient,
				r.Config.RateLimit.Request,
				time.Duration(r.Config.RateLimit.Duration)*time.Second,
			))

			r.userRoutes(v1)
		}
	}

	return router
}
