// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "portfolio-tracker/internal/api"
	"portfolio-tracker/internal/auth"
	"portfolio-tracker/internal/config"
	"portfolio-tracker/internal/pricing"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/internal/repository/postgres"
	"portfolio-tracker/internal/service"
	"portfolio-tracker/internal/util"
	"portfolio-tracker/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository    repository.UserRepository
	HoldingRepository repository.HoldingRepository

	// Pricing and tokens
	Simulator    *pricing.Simulator
	TokenManager *auth.TokenManager

	// Services
	AuthService      service.AuthService
	PortfolioService service.PortfolioService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if app.Config.AutoMigrate {
		if err := db.MigrateUp(ctx, app.DB.DB); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.Logger.Info("Database migrations applied.")
	}

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.HoldingRepository = postgres.NewHoldingRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	app.Simulator = pricing.NewSimulator()
	app.TokenManager = auth.NewTokenManager(app.Config.SecretKey, app.Config.AccessTokenTTL)

	app.AuthService = service.NewAuthService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.TokenManager,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.PortfolioService = service.NewPortfolioService(
		app.DB,
		app.DB,
		app.HoldingRepository,
		app.Simulator,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.RouterConfig{
		AuthService:        app.AuthService,
		PortfolioService:   app.PortfolioService,
		CORSAllowedOrigins: app.Config.CORSAllowedOrigins,
		Logger:             app.Logger,
	})
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	logger := app.Logger
	if logger == nil {
		logger = util.GetLogger()
	}
	logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		logger.Info("Database connection closed.")
	}
	logger.Info("Application shut down gracefully.")
	return nil
}
