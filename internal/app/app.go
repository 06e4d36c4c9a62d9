package app

import (
	"context"
	"fmt"

	"procurechain_backend/database"
	"procurechain_backend/internal/ai"
	"procurechain_backend/internal/cache"
	"procurechain_backend/internal/config"
	"procurechain_backend/internal/email"
	"procurechain_backend/internal/handlers"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/routes"
	"procurechain_backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	logger.Info("database connected", "driver", cfg.Database.Driver)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("auto migration failed", "error", err)
	}
	logger.Info("database migrated")

	if err := database.SeedAdmin(db, cfg); err != nil {
		logger.Fatal("failed to seed admin user", "error", err)
	}

	router := SetupRouter(cfg, db)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

// SetupRouter собирает полный HTTP-стек. Вынесен отдельно, чтобы
// интеграционные тесты поднимали тот же роутер, что и прод
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	ctx := context.Background()

	aiClient, err := ai.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize ai client", "error", err)
	}

	var cacheStore cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cfg)
		if err != nil {
			logger.Fatal("failed to connect to redis", "error", err, "addr", cfg.Cache.Addr)
		}
		cacheStore = redisCache
		logger.Info("cache connected", "addr", cfg.Cache.Addr)
	} else {
		cacheStore = cache.NewNoopCache()
		logger.Info("cache disabled, using no-op store")
	}

	var emailProvider email.Provider
	if cfg.Email.Enabled {
		emailProvider = email.NewSMTPProvider(cfg)
		logger.Info("email provider configured", "host", cfg.Email.SMTPHost)
	} else {
		emailProvider = email.NewNoopProvider()
		logger.Info("email disabled, using no-op provider")
	}

	container := services.NewServiceContainer(db, cfg, aiClient, cacheStore, emailProvider)
	appHandlers := handlers.NewAppHandlers(container, db, cacheStore, cfg)
	limiter := middleware.NewRateLimiter(container.RequestLogs, cfg)

	router := initializeGinRouter(cfg)
	routes.RegisterRoutes(router, appHandlers, limiter)
	return router
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	return router
}
