package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"jobportal_backend/database"
	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/realtime"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/routes"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/validator"
	"jobportal_backend/internal/workers"
	"jobportal_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, cfg.JWT.TTL)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB); err != nil {
		logger.Fatal("failed to seed first admin user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	redisClient := realtime.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	publisher := realtime.NewRedisPublisher(redisClient)

	userRepo := repositories.NewUserRepository(gormDB)
	employerRepo := repositories.NewEmployerRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	outboxRepo := repositories.NewOutboxRepository(gormDB)
	adminLogRepo := repositories.NewAdminLogRepository(gormDB)
	announcementRepo := repositories.NewAnnouncementRepository(gormDB)
	supportRepo := repositories.NewSupportRepository(gormDB)

	publishTimeout := time.Duration(cfg.Outbox.PublishTimeout) * time.Second

	notificationService := services.NewNotificationService(notificationRepo, outboxRepo, userRepo, publisher, publishTimeout)
	moderationService := services.NewModerationService(employerRepo, jobRepo, adminLogRepo, notificationService)
	announcementService := services.NewAnnouncementService(announcementRepo, notificationService)
	supportService := services.NewSupportService(supportRepo, notificationService)
	authService := services.NewAuthService(userRepo, employerRepo, notificationService)
	jobService := services.NewJobService(jobRepo, employerRepo, notificationService)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, notificationService)
	adminLogService := services.NewAdminLogService(adminLogRepo)

	outboxWorker := workers.NewOutboxWorker(
		outboxRepo,
		publisher,
		time.Duration(cfg.Outbox.Interval)*time.Second,
		cfg.Outbox.BatchSize,
		cfg.Outbox.MaxAttempts,
		publishTimeout,
	)
	outboxWorker.Start(ctx)

	expiryWorker := workers.NewJobExpiryWorker(gormDB, time.Hour)
	expiryWorker.Start(ctx)

	hub := ws.NewHub()
	go hub.Run()
	subscriber := ws.NewSubscriber(redisClient, hub)
	subscriber.Start(ctx)
	wsHandler := ws.NewHandler(hub, notificationService)

	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, authService),
		ModerationHandler:   handlers.NewModerationHandler(base, moderationService, adminLogService),
		NotificationHandler: handlers.NewNotificationHandler(base, notificationService),
		AnnouncementHandler: handlers.NewAnnouncementHandler(base, announcementService),
		SupportHandler:      handlers.NewSupportHandler(base, supportService),
		JobHandler:          handlers.NewJobHandler(base, jobService, applicationService),
	}

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
	)

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return ginRouter
}

// seedFirstAdmin guarantees at least one admin account exists, so the
// moderation surface is reachable on a fresh install.
func seedFirstAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("FIRST_ADMIN_EMAIL")
	password := os.Getenv("FIRST_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return errors.New("no admin account exists and FIRST_ADMIN_EMAIL/FIRST_ADMIN_PASSWORD are not set")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("seeded first admin user", "email", email)
	return nil
}
