package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/slotwatch/central-api/api/swagger"
	"github.com/slotwatch/central-api/internal/handler"
	"github.com/slotwatch/central-api/internal/middleware"
	"github.com/slotwatch/central-api/internal/repository"
	"github.com/slotwatch/central-api/internal/service"
	"github.com/slotwatch/central-api/pkg/cache"
	"github.com/slotwatch/central-api/pkg/config"
	"github.com/slotwatch/central-api/pkg/database"
	"github.com/slotwatch/central-api/pkg/logger"
	corsmiddleware "github.com/slotwatch/central-api/pkg/middleware/cors"
	reqidmiddleware "github.com/slotwatch/central-api/pkg/middleware/requestid"
)

// @title Slotwatch Central API
// @version 0.1.0
// @description Central coordination backend for driving-test slot monitoring
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.ConfigCache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, config cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewRedisCacheRepository(redisClient)
		}
	}
	configCache := service.NewCacheService(cacheRepo, metrics, cfg.ConfigCache.TTL, logr, cfg.ConfigCache.Enabled && cacheRepo != nil)

	validate := validator.New()

	taskRepo := repository.NewTaskRepository(db)
	configRepo := repository.NewAgentConfigRepository(db)

	taskSvc := service.NewTaskService(taskRepo, validate, logr, metrics)
	configSvc := service.NewAgentConfigService(configRepo, configCache, logr)

	taskHandler := handler.NewTaskHandler(taskSvc)
	reportHandler := handler.NewReportHandler(taskSvc)
	configHandler := handler.NewAgentConfigHandler(configSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	enrollmentHandler := handler.NewEnrollmentHandler(taskSvc, nil)
	if cfg.Export.Enabled {
		enrollmentHandler = handler.NewEnrollmentHandler(taskSvc, service.NewExportService(taskSvc, logr))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/healthz", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/enroll", taskHandler.Enroll)
		api.GET("/tasks", taskHandler.List)
		api.GET("/tasks/:id", taskHandler.Get)
		api.PUT("/tasks/:id", taskHandler.Update)
		api.POST("/report", reportHandler.Receive)
		api.GET("/config", configHandler.Resolve)
		api.GET("/enrollments", enrollmentHandler.List)
		api.GET("/enrollments/search", enrollmentHandler.Search)
		api.GET("/enrollments/export", enrollmentHandler.Export)
		api.GET("/stats", taskHandler.Stats)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
