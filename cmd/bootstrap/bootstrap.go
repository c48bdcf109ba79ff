package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"medical-admin-dashboard/config"
	"medical-admin-dashboard/internal/aggregation"
	deliveryHttp "medical-admin-dashboard/internal/delivery/http"
	"medical-admin-dashboard/internal/delivery/http/handler"
	"medical-admin-dashboard/internal/delivery/http/middleware"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/infrastructure/cache"
	"medical-admin-dashboard/internal/infrastructure/database"
	"medical-admin-dashboard/internal/infrastructure/upstream"
	"medical-admin-dashboard/internal/repository"
	"medical-admin-dashboard/internal/service"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/jwt"
	"medical-admin-dashboard/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Store       database.Store
	RedisClient *redis.Client
	Scheduler   *service.SeedScheduler
	Server      *http.Server
	log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.Log)
	app := &App{Config: cfg, log: log}
	log.Info("Configuration loaded successfully")

	store, err := newStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	app.Store = store

	// Redis only backs the dashboard cache, so it is optional.
	reportCache := service.NewNoopReportCache()
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	switch {
	case err == nil:
		app.RedisClient = redisClient
		reportCache = service.NewRedisReportCache(redisClient, cfg.Dashboard.CacheTTL, log)
	case errors.Is(err, cache.ErrNotConfigured):
		log.Info("Redis not configured, dashboard cache disabled")
	default:
		log.Warnf("Dashboard cache disabled: %v", err)
	}

	if err := app.initialize(reportCache); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newStore(cfg *config.Config, log *logrus.Logger) (database.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return database.NewMemoryStore(log), nil
	case config.StoreDriverMongo, "":
		return database.NewMongoConnection(cfg.Mongo, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initialize wires every layer and creates the HTTP server
func (app *App) initialize(reportCache service.ReportCache) error {
	cfg, log, store := app.Config, app.log, app.Store

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	cipher, err := service.NewCardCipher(cfg.Ocr.KeySource, cfg.Ocr.KeySecret)
	if err != nil {
		return fmt.Errorf("failed to configure card cipher: %w", err)
	}
	emailCipher, err := service.NewEmailCipher(cfg.User.EmailSecret)
	if err != nil {
		return fmt.Errorf("failed to configure email cipher: %w", err)
	}
	upstreamClient := upstream.NewClient(cfg.Upstream, log)
	paginator := aggregation.NewPaginator(store, entity.References, log)

	// Initialize repositories
	doctorProfileRepo := repository.NewDoctorProfileRepository(store)
	ocrResultRepo := repository.NewOcrResultRepository(store)
	datasetRepo := repository.NewDatasetRepository(store)
	seedLogRepo := repository.NewSeedLogRepository(store)
	auditLogRepo := repository.NewAuditLogRepository(store)
	userRepo := repository.NewUserRepository(store)

	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	doctorUsecase := usecase.NewDoctorUsecase(store, paginator, log, doctorProfileRepo, upstreamClient, reportCache, auditService)
	doctorOcrUsecase := usecase.NewDoctorOcrUsecase(log, doctorProfileRepo, ocrResultRepo, upstreamClient, cipher, auditService)
	clinicUsecase := usecase.NewClinicUsecase(store, paginator, log)
	feedbackUsecase := usecase.NewFeedbackUsecase(store, paginator, log)
	dashboardUsecase := usecase.NewDashboardUsecase(store, log, reportCache)
	seedUsecase := usecase.NewSeedUsecase(log, upstreamClient, datasetRepo, seedLogRepo, reportCache)
	auditLogUsecase := usecase.NewAuditLogUsecase(paginator, log)
	userUsecase := usecase.NewUserUsecase(store, paginator, log, userRepo, emailCipher)

	if cfg.Seed.Schedule != "" {
		scheduler, err := service.NewSeedScheduler(cfg.Seed.Schedule, seedUsecase, log)
		if err != nil {
			return fmt.Errorf("invalid seed schedule %q: %w", cfg.Seed.Schedule, err)
		}
		app.Scheduler = scheduler
	}

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator, log)
	doctorOcrHandler := handler.NewDoctorOcrHandler(doctorOcrUsecase, customValidator, log)
	clinicHandler := handler.NewClinicHandler(clinicUsecase, log)
	feedbackHandler := handler.NewFeedbackHandler(feedbackUsecase, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase, log)
	seedHandler := handler.NewSeedHandler(seedUsecase, log)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, log)
	userHandler := handler.NewUserHandler(userUsecase, customValidator, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins)

	router := deliveryHttp.NewRouter(
		doctorHandler,
		doctorOcrHandler,
		clinicHandler,
		feedbackHandler,
		dashboardHandler,
		seedHandler,
		auditLogHandler,
		userHandler,
		authMiddleware,
		corsMiddleware,
		store,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	if app.Scheduler != nil {
		app.Scheduler.Start()
		app.log.Infof("Seed scheduler started with schedule %q", app.Config.Seed.Schedule)
	}

	go func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.log.Info("Server shutdown complete")
}

// Close stops the scheduler and closes the store and Redis connections
func (app *App) Close() {
	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}

	if app.Store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Store.Close(ctx); err != nil {
			app.log.Errorf("Failed to close record store: %v", err)
		}
	}

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.log.Errorf("Failed to close Redis connection: %v", err)
		}
	}
}

// MintAdminToken signs an admin access token for subject. Operators use it
// to hand tokens to dashboard users, since the service has no login flow.
func MintAdminToken(cfg config.JWTConfig, subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("token subject is required")
	}
	return jwt.NewJWTService(cfg).GenerateAccessToken(subject, jwt.RoleAdmin)
}
