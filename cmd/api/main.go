package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"gatherly/config"
	authadapter "gatherly/internal/adapters/auth"
	"gatherly/internal/adapters/blob"
	emailadapter "gatherly/internal/adapters/email"
	httpdelivery "gatherly/internal/delivery/http"
	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/repository/postgres"
	"gatherly/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Gatherly API
// @version 1.0
// @description Event listing and registration service: browse upcoming events, manage your own, and register for others'.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger()
	logger.Info("starting api", "environment", cfg.Environment, "port", cfg.Port)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	inscriptionRepo := postgres.NewInscriptionRepository(db)
	userRepo := postgres.NewUserRepository(db)

	blobStore, err := blob.NewFSStore(cfg.UploadsDir)
	if err != nil {
		logger.Error("failed to init uploads store", "dir", cfg.UploadsDir, "err", err)
		os.Exit(1)
	}

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to init mailer", "provider", cfg.EmailProvider, "err", err)
		os.Exit(1)
	}

	hasher := authadapter.NewBcryptHasher(12)
	tokenIssuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	eventService := services.NewEventService(eventRepo, blobStore, logger, serviceTimeout)
	queryService := services.NewQueryService(eventRepo, inscriptionRepo, serviceTimeout)
	registrationService := services.NewRegistrationService(eventRepo, inscriptionRepo, userRepo, emailService, logger, serviceTimeout)
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry)

	eventController := controllers.NewEventController(logger, eventService, queryService)
	registrationController := controllers.NewRegistrationController(logger, registrationService, queryService)
	authController := controllers.NewAuthController(logger, authService)

	mux := httpdelivery.NewRouter(eventController, registrationController, authController, tokenVerifier, cfg.UploadsDir)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.Logging(logger, handler)

	addr := ":" + cfg.Port
	logger.Info("api server listening", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
