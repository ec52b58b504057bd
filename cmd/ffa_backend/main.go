package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_finance_agent/internal/adapters/llm"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_agent/internal/core/services"
	"github.com/SscSPs/family_finance_agent/internal/handlers"
	"github.com/SscSPs/family_finance_agent/internal/middleware"
	"github.com/SscSPs/family_finance_agent/internal/platform/config"
	"github.com/SscSPs/family_finance_agent/internal/repositories/database/pgsql"
	"github.com/SscSPs/family_finance_agent/internal/repositories/memory"
	"github.com/SscSPs/family_finance_agent/pkg/database"
)

// @title Family Finance Agent API
// @version 1.0
// @description Chat backend for shared family finances.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	upstream, err := llm.NewUpstream(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize model upstream", slog.String("provider", cfg.LLMProvider), slog.String("error", err.Error()))
		os.Exit(1)
	}
	streamer := llm.NewGatewayClient(cfg.GatewayURL, nil)

	serviceContainer := services.NewServiceContainer(cfg, repos, streamer, upstream)
	if store, ok := serviceContainer.Sessions.(*services.SessionStore); ok {
		go store.Run(ctx, time.Minute)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("storage", cfg.StorageDriver),
		slog.String("llm_provider", cfg.LLMProvider),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupRepositories opens the configured storage and returns its repositories
// together with a cleanup func for shutdown.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage. Data is lost on restart.")
		return memory.NewStore().Provider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, database.DefaultMigrationsPath, logger); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}

	listener := pgsql.NewChangeListener(cfg.DatabaseURL, logger)
	listener.Start(ctx)

	return pgsql.NewRepositoryProvider(dbPool, listener), func() { database.ClosePgxPool(dbPool) }, nil
}
