package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "erp-subscription-backend/internal/api/http"
	"erp-subscription-backend/internal/config"
	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/repository"
	"erp-subscription-backend/internal/repository/memory"
	"erp-subscription-backend/internal/repository/postgres"
	"erp-subscription-backend/internal/security"
	"erp-subscription-backend/internal/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env before config so env overrides see its values
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ERP Subscription Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "base_url", cfg.App.BaseURL)

	// Initialize Repositories
	var (
		userRepo  repository.UserRepository
		orgRepo   repository.OrganizationRepository
		draftRepo repository.DraftRepository
	)
	switch cfg.Storage.Type {
	case "memory":
		logger.Info("Using in-memory storage")
		store := memory.NewStore()
		userRepo, orgRepo, draftRepo = store, store.Orgs(), store.Drafts()
	default:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		userRepo, orgRepo, draftRepo = store.Users, store.Orgs, store.Drafts
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	paymentSvc := service.NewSimulatedPaymentService(time.Duration(cfg.Payment.DelayMillis) * time.Millisecond)
	activationSvc := service.NewActivationService(userRepo, orgRepo, cfg.App.BaseURL)
	subscriptionSvc := service.NewSubscriptionService(userRepo, orgRepo, draftRepo, activationSvc, paymentSvc, emailSvc)
	authSvc := service.NewAuthService(userRepo, orgRepo, tokenManager)
	billingSvc := service.NewBillingService(userRepo, orgRepo, activationSvc, emailSvc)

	// Initialize HTTP handlers and routes
	router := httpapi.NewRouter(
		httpapi.NewSubscriptionHandler(subscriptionSvc, activationSvc),
		httpapi.NewAuthHandler(authSvc),
		httpapi.NewBillingHandler(billingSvc),
		tokenManager,
	)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
