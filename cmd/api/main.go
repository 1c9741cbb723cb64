package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nursultan-dev/campus-hub-api/internal/config"
	"github.com/nursultan-dev/campus-hub-api/internal/database"
	"github.com/nursultan-dev/campus-hub-api/internal/handler"
	"github.com/nursultan-dev/campus-hub-api/internal/middleware"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
	"github.com/nursultan-dev/campus-hub-api/internal/router"
	"github.com/nursultan-dev/campus-hub-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	recommendationRepo := repository.NewRecommendationRepository(db)
	forumRepo := repository.NewForumRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, service.TokenConfig{
		Secret:        cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, validate, logger)
	studentService := service.NewStudentService(studentRepo, userRepo, taxonomyRepo, validate, logger)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, activityService, validate, logger)
	pointsService := service.NewPointsService(pointsRepo, studentRepo, activityService, validate, logger)
	recommendationService := service.NewRecommendationService(recommendationRepo, studentRepo, logger)
	forumService := service.NewForumService(forumRepo, userRepo, studentRepo, validate, logger)
	adminService := service.NewAdminService(userRepo, studentRepo, activityService, validate, logger)

	if cfg.SeedOnStart {
		seedService := service.NewSeedService(taxonomyRepo, pointsRepo, logger)
		if err := seedService.Seed(context.Background()); err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
	}

	authHandler := handler.NewAuthHandler(authService, logger)
	studentHandler := handler.NewStudentHandler(studentService, pointsService, recommendationService, logger)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService, logger)
	pointsHandler := handler.NewPointsHandler(pointsService, logger)
	forumHandler := handler.NewForumHandler(forumService, logger)
	adminHandler := handler.NewAdminHandler(adminService, activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     authHandler,
		StudentHandler:  studentHandler,
		TaxonomyHandler: taxonomyHandler,
		PointsHandler:   pointsHandler,
		ForumHandler:    forumHandler,
		AdminHandler:    adminHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
