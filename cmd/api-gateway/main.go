package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/villageflow/villageflow-api/api/swagger"
	"github.com/villageflow/villageflow-api/internal/handler"
	"github.com/villageflow/villageflow-api/internal/middleware"
	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/internal/repository"
	"github.com/villageflow/villageflow-api/internal/service"
	"github.com/villageflow/villageflow-api/pkg/cache"
	"github.com/villageflow/villageflow-api/pkg/config"
	"github.com/villageflow/villageflow-api/pkg/database"
	"github.com/villageflow/villageflow-api/pkg/logger"
	corsmiddleware "github.com/villageflow/villageflow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/villageflow/villageflow-api/pkg/middleware/requestid"
	"github.com/villageflow/villageflow-api/pkg/storage"
)

// @title VillageFlow API
// @version 1.0.0
// @description Digital service portal for Grama Niladhari division offices
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	fileStore, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}
	urlSigner := storage.NewSignedURLSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)

	userRepo := repository.NewUserRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	welfareRepo := repository.NewWelfareRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	validate := validator.New()

	metricsService := service.NewMetricsService()

	var notificationService *service.NotificationService
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Notifications.Enabled {
		notificationService = service.NewNotificationService(nil, logr, service.NotificationConfig{
			Workers:    cfg.Notifications.WorkerConcurrency,
			MaxRetries: cfg.Notifications.WorkerRetries,
			RetryDelay: cfg.Notifications.RetryDelay,
		})
		notificationService.Start(ctx)
		defer notificationService.Stop()
	}

	authService := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "villageflow-api",
		OfficerKey:         cfg.Registration.OfficerKey,
		District:           cfg.Portal.District,
		DivisionalSec:      cfg.Portal.DivisionalSecretariat,
		GNDivision:         cfg.Portal.GramaNiladhariDivision,
	})

	applicationService := service.NewApplicationService(
		applicationRepo, documentRepo, auditRepo, cacheRepo, notificationService, logr, cfg.Verification.CacheTTL)
	applicationService.SetMetrics(metricsService)

	documentService := service.NewDocumentService(documentRepo, fileStore, urlSigner, logr, service.DocumentConfig{
		MaxFileSizeBytes: cfg.Documents.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Documents.AllowedMIMEs,
	})
	welfareService := service.NewWelfareService(welfareRepo, auditRepo, validate, logr)
	assetService := service.NewAssetService(assetRepo, auditRepo, validate, logr)
	noticeService := service.NewNoticeService(noticeRepo, validate, logr)
	auditService := service.NewAuditService(auditRepo, logr)
	exportService := service.NewExportService(applicationRepo, userRepo, welfareRepo, service.PortalIdentity{
		District:              cfg.Portal.District,
		DivisionalSecretariat: cfg.Portal.DivisionalSecretariat,
		GNDivision:            cfg.Portal.GramaNiladhariDivision,
		VerifyBaseURL:         cfg.Verification.BaseURL,
	}, logr)

	authHandler := handler.NewAuthHandler(authService)
	applicationHandler := handler.NewApplicationHandler(applicationService, exportService)
	verifyHandler := handler.NewVerifyHandler(applicationService)
	documentHandler := handler.NewDocumentHandler(documentService)
	welfareHandler := handler.NewWelfareHandler(welfareService, exportService)
	assetHandler := handler.NewAssetHandler(assetService)
	noticeHandler := handler.NewNoticeHandler(noticeService)
	auditHandler := handler.NewAuditHandler(auditService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	auth.POST("/proxy-register",
		middleware.JWT(authService), middleware.RequireRoles(models.RoleOfficer), authHandler.ProxyRegister)

	// public certificate verification, no auth required
	api.GET("/verify/:id", verifyHandler.Verify)

	applications := api.Group("/applications", middleware.JWT(authService))
	applications.POST("", applicationHandler.Submit)
	applications.GET("", applicationHandler.ListMine)
	applications.GET("/all", middleware.RequireRoles(models.RoleOfficer), applicationHandler.ListAll)
	applications.GET("/report",
		middleware.RequireRoles(models.RoleOfficer),
		middleware.Audit(auditRepo, "REPORT_EXPORT", "application"),
		applicationHandler.Report)
	applications.GET("/:id", applicationHandler.Get)
	applications.PUT("/:id", applicationHandler.Update)
	applications.DELETE("/:id", applicationHandler.Delete)
	applications.POST("/:id/approve", middleware.RequireRoles(models.RoleOfficer), applicationHandler.Approve)
	applications.POST("/:id/reject", middleware.RequireRoles(models.RoleOfficer), applicationHandler.Reject)
	applications.GET("/:id/certificate", applicationHandler.Certificate)

	documents := api.Group("/documents")
	documents.POST("", middleware.JWT(authService), documentHandler.Upload)
	documents.GET("", middleware.JWT(authService), documentHandler.ListMine)
	documents.GET("/:id/url", middleware.JWT(authService), documentHandler.SignedURL)
	// token-authenticated, used by the signed URLs themselves
	documents.GET("/:id/download", documentHandler.Download)

	welfare := api.Group("/welfare", middleware.JWT(authService))
	welfare.POST("", welfareHandler.Apply)
	welfare.GET("", middleware.RequireRoles(models.RoleOfficer), welfareHandler.List)
	welfare.GET("/export",
		middleware.RequireRoles(models.RoleOfficer),
		middleware.Audit(auditRepo, "REPORT_EXPORT", "welfare"),
		welfareHandler.ExportCSV)
	welfare.PUT("/:id", middleware.RequireRoles(models.RoleOfficer), welfareHandler.Update)
	welfare.DELETE("/:id", middleware.RequireRoles(models.RoleOfficer), welfareHandler.Delete)

	assets := api.Group("/assets", middleware.JWT(authService), middleware.RequireRoles(models.RoleOfficer))
	assets.POST("", assetHandler.Create)
	assets.GET("", assetHandler.List)
	assets.PUT("/:id", assetHandler.Update)
	assets.DELETE("/:id", assetHandler.Delete)

	notices := api.Group("/notices")
	notices.GET("", noticeHandler.List)
	notices.POST("", middleware.JWT(authService), middleware.RequireRoles(models.RoleOfficer), noticeHandler.Create)
	notices.PUT("/:id", middleware.JWT(authService), middleware.RequireRoles(models.RoleOfficer), noticeHandler.Update)
	notices.DELETE("/:id", middleware.JWT(authService), middleware.RequireRoles(models.RoleOfficer), noticeHandler.Delete)

	api.GET("/audit",
		middleware.JWT(authService), middleware.RequireRoles(models.RoleOfficer), auditHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
