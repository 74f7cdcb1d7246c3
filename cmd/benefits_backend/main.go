package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/SscSPs/benefit_accounts_app/internal/adapters/database/memory"
	"github.com/SscSPs/benefit_accounts_app/internal/adapters/database/pgsql"
	portsrepo "github.com/SscSPs/benefit_accounts_app/internal/core/ports/repositories"
	"github.com/SscSPs/benefit_accounts_app/internal/core/services"
	"github.com/SscSPs/benefit_accounts_app/internal/handlers"
	"github.com/SscSPs/benefit_accounts_app/internal/middleware"
	"github.com/SscSPs/benefit_accounts_app/internal/platform/config"
	"github.com/SscSPs/benefit_accounts_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Benefit Accounts API
// @version 1.0
// @description Benefit accounts with optimistic-concurrency balance transfers.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run wires the application and serves until the listener fails.
// Deferred cleanup always runs before main exits.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	repos, cleanup, err := setupRepositories(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize account store: %w", err)
	}
	defer cleanup()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	rateLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", cfg.RateLimit, err)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, mutating routes are not authenticated")
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed to run: %w", err)
	}
	return nil
}

// setupRepositories builds the configured account store. The returned cleanup
// releases whatever the store holds.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Info("Using in-memory account store")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
	applied, err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(cfg.CORSAllowedOrigins) == 0 || slices.Contains(cfg.CORSAllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}
