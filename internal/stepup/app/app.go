package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/shiftwise/stepup/internal/stepup/http"
	"github.com/shiftwise/stepup/internal/stepup/service"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/internal/stepup/store/drivers/sqlite"
	"github.com/shiftwise/stepup/internal/stepup/transport"
	"github.com/shiftwise/stepup/pkg/cryptox"
	"github.com/shiftwise/stepup/pkg/jwtx"
	"github.com/shiftwise/stepup/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the step-up verification service with all its
// dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	verifier jwtx.Verifier

	// Services
	rateLimiter         *service.RateLimiter
	sessionService      *service.SessionService
	deviceService       *service.DeviceService
	deliveryService     *service.DeliveryService
	enrollService       *service.EnrollService
	verifyService       *service.VerifyService
	statusService       *service.StatusService
	settingsService     *service.SettingsService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "stepup-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("STEPUP_JWT_SECRET must be set")
	}

	// Pepper for code hashing, master key for sealing TOTP secrets
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if app.cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(app.cfg.MasterKeyPath)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.verifier = jwtx.NewHS256Verifier([]byte(cfg.JWTSecret), cfg.Issuer)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("stepup service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down stepup service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("stepup service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.rateLimiter = &service.RateLimiter{Store: app.db}
	app.sessionService = &service.SessionService{Store: app.db}
	app.deviceService = &service.DeviceService{Store: app.db}

	app.deliveryService = &service.DeliveryService{
		Store:   app.db,
		Sender:  &transport.LogSender{Logger: app.logger},
		Limiter: app.rateLimiter,
	}

	app.enrollService = &service.EnrollService{
		Store:    app.db,
		Delivery: app.deliveryService,
		Limiter:  app.rateLimiter,
		Issuer:   app.cfg.TOTPIssuer,
	}

	app.verifyService = &service.VerifyService{
		Store:    app.db,
		Delivery: app.deliveryService,
		Sessions: app.sessionService,
		Devices:  app.deviceService,
		Limiter:  app.rateLimiter,
	}

	app.statusService = &service.StatusService{
		Store:    app.db,
		Sessions: app.sessionService,
		Devices:  app.deviceService,
	}

	app.settingsService = &service.SettingsService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.StatusService = app.statusService
	router.VerifyService = app.verifyService
	router.SessionService = app.sessionService
	router.DeliveryService = app.deliveryService
	router.EnrollService = app.enrollService
	router.DeviceService = app.deviceService
	router.SettingsService = app.settingsService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
