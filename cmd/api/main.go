// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/beanscore/internal/auth"
	"github.com/carterperez-dev/beanscore/internal/config"
	"github.com/carterperez-dev/beanscore/internal/core"
	"github.com/carterperez-dev/beanscore/internal/health"
	"github.com/carterperez-dev/beanscore/internal/metrics"
	"github.com/carterperez-dev/beanscore/internal/middleware"
	"github.com/carterperez-dev/beanscore/internal/place"
	"github.com/carterperez-dev/beanscore/internal/server"
	"github.com/carterperez-dev/beanscore/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	generateKeys := flag.Bool(
		"generate-keys",
		false,
		"write a new ES256 key pair and exit",
	)
	privateKeyPath := flag.String(
		"private-key",
		"keys/private.pem",
		"private key output path for -generate-keys",
	)
	publicKeyPath := flag.String(
		"public-key",
		"keys/public.pem",
		"public key output path for -generate-keys",
	)
	flag.Parse()

	if *generateKeys {
		if err := writeKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			slog.Error("key generation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if _, err := os.Stat(configPath); err != nil {
		configPath = ""
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	decimal.MarshalJSONWithoutQuotes = true

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := core.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	var (
		redis        *core.Redis
		redisChecker health.Checker
		assetCache   place.AssetCache
	)
	if cfg.Redis.Enabled() {
		redis, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisChecker = redis
		assetCache = place.NewRedisAssetCache(redis, cfg.Photo.CacheTTL)
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
			"asset_cache_ttl", cfg.Photo.CacheTTL,
		)
	} else {
		logger.Info("redis not configured, photo cache disabled")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
		"token_lifetime", auth.TokenLifetime,
	)

	registry := prometheus.NewRegistry()
	metrics.RegisterRuntime(registry)
	collector := metrics.NewCollector(registry)

	placeRepo := place.NewRepository(db.DB)
	placeSvc := place.NewService(placeRepo, db, assetCache, cfg.Photo)
	placeHandler := place.NewHandler(placeSvc)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, db, func(tx core.DBTX) user.PlaceRemover {
		return placeRepo.WithTx(tx)
	})
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(jwtManager, userSvc, collector)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(db, redisChecker)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler(registry))
	}

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	requireUser := middleware.RequireRole(auth.RoleUser)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		placeHandler.RegisterRoutes(r, authenticator, requireUser)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if redis != nil {
		if err := redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func writeKeyPair(privateKeyPath, publicKeyPath string) error {
	for _, dir := range []string{
		filepath.Dir(privateKeyPath),
		filepath.Dir(publicKeyPath),
	} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create key directory: %w", err)
		}
	}

	if err := auth.GenerateKeyPair(privateKeyPath, publicKeyPath); err != nil {
		return err
	}

	slog.Info("key pair written",
		"private_key", privateKeyPath,
		"public_key", publicKeyPath,
	)
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
