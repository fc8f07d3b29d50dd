package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/catalog/config"
	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/internal/handler"
	"github.com/Payphone-Digital/catalog/internal/middleware"
	"github.com/Payphone-Digital/catalog/internal/repository"
	"github.com/Payphone-Digital/catalog/internal/router"
	"github.com/Payphone-Digital/catalog/internal/service"
	"github.com/Payphone-Digital/catalog/pkg/database"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"github.com/Payphone-Digital/catalog/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	perfConfig := logger.DevelopmentConfig()
	if config.IsProduction() {
		perfConfig = logger.ProductionConfig()
	}
	perfConfig.MinLogLevel = logger.LevelFor(config)
	if err := logger.InitOptimizedLogger(perfConfig, logger.GetLogger()); err != nil {
		panic("Failed to initialize context logger: " + err.Error())
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
		zap.String("database_driver", config.Database.Driver),
	)

	db, err := database.Open(config.Database)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	seeded := 0
	if config.Catalog.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if seeded, err = database.SeedProducts(ctx, db); err != nil {
			// an unseeded catalog is still servable
			logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		}
		cancel()
	}

	var redisClient *redis.Client
	if config.Redis.Enabled {
		redisClient, err = redis.NewClient(config.Redis)
		if err != nil {
			logger.GetLogger().Warn("Redis unavailable, continuing without it", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Repositories
	productRepo := repository.NewProductRepository(db)

	// Services
	cacheService := service.NewCacheService(redisClient, config.Catalog.FacetCacheTTL)
	defer cacheService.Close()
	productService := service.NewProductService(productRepo, cacheService).
		WithFacetTimeout(config.App.RequestTimeout)
	if seeded > 0 {
		// facets cached by an earlier run predate the seed
		productService.InvalidateFilters(context.Background())
	}

	// Handlers
	productHandler := handler.NewProductHandler(productService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	var limiter middleware.Limiter
	if config.RateLimit.Enabled {
		if redisClient != nil {
			limiter = middleware.NewRedisLimiter(redisClient.Raw(), config.RateLimit)
		} else {
			memLimiter := middleware.NewMemoryLimiter(config.RateLimit)
			defer memLimiter.Close()
			limiter = memLimiter
		}
	}

	r := router.NewRouter(
		productHandler,
		healthHandler,

		limiter,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.Bool("redis_enabled", redisClient != nil),
			zap.Bool("rate_limit_enabled", limiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}

	logger.GetLogger().Info("Server exited")
}
