package main

import (
	"log"
	"net/http"
	"os"

	_ "goodcitizen/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"goodcitizen/internal/auth"
	"goodcitizen/internal/cache"
	"goodcitizen/internal/config"
	"goodcitizen/internal/db"
	"goodcitizen/internal/handler"
	"goodcitizen/internal/model"
	"goodcitizen/internal/notify"
	"goodcitizen/internal/photo"
	"goodcitizen/internal/repository"
	"goodcitizen/internal/router"
	"goodcitizen/internal/service"
)

// @title Good Citizen API
// @version 1.0
// @description Civic issue reporting platform with report verification, citizen scoring, authority routing and point redemption.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Redemption{},
			&model.PeerVerification{},
			&model.Report{},
			&model.Authority{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Authority{},
		&model.Report{},
		&model.PeerVerification{},
		&model.Redemption{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)
	authorityRepo := repository.NewAuthorityRepository(gormDB)
	redemptionRepo := repository.NewRedemptionRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	identityVerifier := auth.NewHTTPIdentityVerifier(cfg.IdentityVerifyURL)

	// External side channels: photo storage and outbound mail
	photoStore := photo.NewHTTPStore(cfg.PhotoStoreURL, cfg.PhotoStoreToken)
	mailer := notify.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	notifier := notify.New(mailer)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, identityVerifier, notifier)
	userService := service.NewUserService(userRepo, reportRepo, cacheClient)
	reportService := service.NewReportService(reportRepo, userRepo, authorityRepo, photoStore, notifier, cacheClient)
	authorityService := service.NewAuthorityService(authorityRepo)
	rewardService := service.NewRewardService(redemptionRepo, userRepo, service.DefaultCatalog(), cacheClient)
	statsService := service.NewStatsService(reportRepo, userRepo, authorityRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	reportHandler := handler.NewReportHandler(reportService)
	adminHandler := handler.NewAdminHandler(reportService, statsService)
	authorityHandler := handler.NewAuthorityHandler(authorityService)
	rewardHandler := handler.NewRewardHandler(rewardService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		reportHandler,
		adminHandler,
		authorityHandler,
		rewardHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
