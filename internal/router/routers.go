package router

import (
	"github.com/Payphone-Digital/catalog/config"
	"github.com/Payphone-Digital/catalog/internal/handler"
	"github.com/Payphone-Digital/catalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	productHandler *handler.ProductHandler
	healthHandler  *handler.HealthHandler

	limiter middleware.Limiter
	Config  *config.Config
}

// NewRouter wires handlers into routes. A nil limiter disables rate limiting.
func NewRouter(
	product *handler.ProductHandler,
	health *handler.HealthHandler,

	limiter middleware.Limiter,
	config *config.Config,
) *Router {
	return &Router{
		productHandler: product,
		healthHandler:  health,

		limiter: limiter,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config.IsProduction() || !r.Config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestContext(r.Config.App.RequestTimeout))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(r.Config.App.AllowedOrigins))

	api := router.Group("/api")
	{
		r.healthRoutes(api)
		r.productRoutes(api)
	}

	return router
}

func (r *Router) healthRoutes(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("", r.healthHandler.HealthCheck)
		health.GET("/live", r.healthHandler.Live)
	}
}
