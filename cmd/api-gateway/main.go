package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/harmonia-app/agenda-api/api/swagger"
	"github.com/harmonia-app/agenda-api/internal/handler"
	"github.com/harmonia-app/agenda-api/internal/middleware"
	"github.com/harmonia-app/agenda-api/internal/repository"
	"github.com/harmonia-app/agenda-api/internal/service"
	"github.com/harmonia-app/agenda-api/pkg/cache"
	"github.com/harmonia-app/agenda-api/pkg/config"
	"github.com/harmonia-app/agenda-api/pkg/database"
	"github.com/harmonia-app/agenda-api/pkg/logger"
	corsmiddleware "github.com/harmonia-app/agenda-api/pkg/middleware/cors"
	reqidmiddleware "github.com/harmonia-app/agenda-api/pkg/middleware/requestid"
)

// @title Harmonia Agenda API
// @version 0.1.0
// @description Class scheduling, conflict detection and slot recommendation
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// The suggestion cache is an optimization; a missing Redis only costs
	// latency, so start without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, serving suggestions uncached", zap.Error(err))
		redisClient = nil
	}

	sessionRepo := repository.NewSessionRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	hoursRepo := repository.NewHoursRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := validator.New()
	schedulingSvc := service.NewSchedulingService(sessionRepo, roomRepo, hoursRepo, cacheRepo, metrics, validate, logr, cfg.Scheduler)
	unitSvc := service.NewUnitService(roomRepo, hoursRepo, cacheRepo, validate, logr)
	exportSvc := service.NewExportService(schedulingSvc, logr)

	schedulingHandler := handler.NewSchedulingHandler(schedulingSvc)
	unitHandler := handler.NewUnitHandler(unitSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group(cfg.APIPrefix)
	{
		v1.GET("/classes", schedulingHandler.ListSessions)
		v1.POST("/classes", schedulingHandler.CreateSession)
		v1.POST("/classes/validate", schedulingHandler.ValidateSession)
		v1.GET("/classes/:id", schedulingHandler.GetSession)
		v1.DELETE("/classes/:id", schedulingHandler.DeleteSession)
		v1.POST("/schedule/suggestions", schedulingHandler.SuggestSlots)
		v1.GET("/schedule/weekly", schedulingHandler.WeeklySchedule)
		v1.GET("/rooms", unitHandler.ListRooms)
		v1.POST("/rooms", unitHandler.CreateRoom)
		v1.GET("/units/:unitId/hours", unitHandler.GetHours)
		v1.PUT("/units/:unitId/hours", unitHandler.SetHours)
		if cfg.Exports.Enabled {
			v1.GET("/schedule/export", exportHandler.ExportWeekly)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
