package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hirelane/interview-booking-api/api/swagger"
	"github.com/hirelane/interview-booking-api/internal/gateway"
	"github.com/hirelane/interview-booking-api/internal/handler"
	"github.com/hirelane/interview-booking-api/internal/middleware"
	"github.com/hirelane/interview-booking-api/internal/repository"
	"github.com/hirelane/interview-booking-api/internal/service"
	"github.com/hirelane/interview-booking-api/pkg/config"
	"github.com/hirelane/interview-booking-api/pkg/database"
	"github.com/hirelane/interview-booking-api/pkg/jobs"
	"github.com/hirelane/interview-booking-api/pkg/logger"
	corsmiddleware "github.com/hirelane/interview-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hirelane/interview-booking-api/pkg/middleware/requestid"

	rediscache "github.com/hirelane/interview-booking-api/pkg/cache"
)

// @title Interview Booking API
// @version 1.0.0
// @description Employer availability resolution and interview booking engine
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, availability caching disabled", "error", err)
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	scheduleRepo := repository.NewScheduleRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	validate := validator.New()
	metrics := service.NewMetricsService()

	var collaborators *gateway.Client
	if cfg.Collaborators.Enabled {
		collaborators = gateway.NewClient(gateway.Config{
			JobDirectoryURL:  cfg.Collaborators.JobDirectoryURL,
			ApplicationsURL:  cfg.Collaborators.ApplicationsURL,
			NotificationsURL: cfg.Collaborators.NotificationsURL,
		}, &http.Client{Timeout: cfg.Collaborators.RequestTimeout})
	}

	var effects *service.SideEffectService
	if collaborators != nil {
		effects = service.NewSideEffectService(collaborators, jobs.QueueConfig{
			Workers:    cfg.SideEffects.Workers,
			BufferSize: cfg.SideEffects.BufferSize,
			MaxRetries: cfg.SideEffects.MaxRetries,
			RetryDelay: cfg.SideEffects.RetryDelay,
		}, logr)
		effects.Start(context.Background())
		defer effects.Stop()
	}

	scheduleSvc := service.NewScheduleService(scheduleRepo, cacheRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(scheduleRepo, interviewRepo, cacheRepo, metrics, service.AvailabilityOptions{
		CacheEnabled: cfg.Availability.CacheEnabled && redisClient != nil,
		CacheTTL:     cfg.Availability.CacheTTL,
		MaxRangeDays: cfg.Availability.MaxRangeDays,
	}, logr)

	bookingOpts := service.BookingOptions{Metrics: metrics}
	if effects != nil {
		bookingOpts.Effects = effects
	}
	if collaborators != nil && cfg.Collaborators.VerifyApplications {
		bookingOpts.Verifier = collaborators
	}
	bookingSvc := service.NewBookingService(interviewRepo, cacheRepo, validate, bookingOpts, logr)

	exportSvc := service.NewExportService(interviewRepo, service.ExportConfig{
		Enabled:     cfg.Exports.Enabled,
		MaxRowCount: cfg.Exports.MaxRowCount,
	}, logr, nil, nil)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	interviewHandler := handler.NewInterviewHandler(bookingSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/employers/:employerId/schedule", scheduleHandler.Get)
		api.PUT("/employers/:employerId/schedule/recurring", scheduleHandler.SetRecurring)
		api.PUT("/employers/:employerId/schedule/specific", scheduleHandler.SetSpecific)
		api.GET("/employers/:employerId/availability", availabilityHandler.Get)
		api.GET("/employers/:employerId/interviews/export", interviewHandler.Export)

		api.POST("/interviews", interviewHandler.Create)
		api.GET("/interviews", interviewHandler.List)
		api.GET("/interviews/:id", interviewHandler.Get)
		api.POST("/interviews/:id/confirm", interviewHandler.Confirm)
		api.POST("/interviews/:id/cancel", interviewHandler.Cancel)
		api.POST("/interviews/:id/reschedule", interviewHandler.Reschedule)
		api.POST("/interviews/:id/complete", interviewHandler.Complete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}

	logr.Sugar().Infow("server stopped")
}
