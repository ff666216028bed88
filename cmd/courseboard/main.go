package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/courseboard/courseboard-api/api/swagger"
	"github.com/courseboard/courseboard-api/internal/events"
	"github.com/courseboard/courseboard-api/internal/handler"
	"github.com/courseboard/courseboard-api/internal/middleware"
	"github.com/courseboard/courseboard-api/internal/repository"
	"github.com/courseboard/courseboard-api/internal/service"
	"github.com/courseboard/courseboard-api/pkg/cache"
	"github.com/courseboard/courseboard-api/pkg/config"
	"github.com/courseboard/courseboard-api/pkg/database"
	"github.com/courseboard/courseboard-api/pkg/logger"
	corsmiddleware "github.com/courseboard/courseboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/courseboard/courseboard-api/pkg/middleware/requestid"
)

// @title Courseboard API
// @version 0.1.0
// @description Course, student and enrollment administration API
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Enrollments.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Enrollments.CacheTTL, logr, true)
	}

	hub := events.NewHub(logr)
	go hub.Run()

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, studentRepo, cacheSvc, hub, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, enrollmentSvc, hub, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, enrollmentSvc, hub, validate, logr)

	handlers := handler.Handlers{
		Courses:     handler.NewCourseHandler(courseSvc),
		Students:    handler.NewStudentHandler(studentSvc, enrollmentSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(courseRepo, enrollmentSvc, logr)
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.LiveFeed.Enabled {
		r.GET("/ws", func(c *gin.Context) {
			hub.ServeWS(c.Writer, c.Request)
		})
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
