package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/linkpocket/linkpocket/internal/config"
	"github.com/linkpocket/linkpocket/internal/geo"
	"github.com/linkpocket/linkpocket/internal/handler"
	"github.com/linkpocket/linkpocket/internal/metrics"
	"github.com/linkpocket/linkpocket/internal/middleware"
	"github.com/linkpocket/linkpocket/internal/repository"
	"github.com/linkpocket/linkpocket/internal/server"
	"github.com/linkpocket/linkpocket/internal/service"
	"github.com/linkpocket/linkpocket/internal/storage"
	"github.com/linkpocket/linkpocket/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := initLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting linkpocket",
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"addr", cfg.Addr(),
	)

	ctx := context.Background()

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}

	var reporter telemetry.Reporter = telemetry.Noop{}
	if cfg.TelemetryURL != "" {
		reporter = telemetry.NewHTTPReporter(cfg.TelemetryURL, logger)
	}

	resolver := geo.New(geo.Config{
		IPEndpoint:      cfg.GeoIPEndpoint,
		ReverseEndpoint: cfg.GeoReverseEndpoint,
		Timeout:         cfg.GeoLookupTimeout,
		Logger:          logger,
	})

	recorder := metrics.NewInMemory()

	svc := service.New(
		ctx,
		repository.New(backend, cfg.StorageKey),
		resolver,
		service.Config{
			BaseURL:                cfg.BaseURL,
			CodeLength:             cfg.ShortCodeLength,
			MaxLinks:               cfg.MaxLinks,
			DefaultValidityMinutes: cfg.DefaultValidityMinutes,
		},
		logger,
		reporter,
		recorder,
	)

	router := handler.NewRouter(
		handler.NewLinkHandler(svc, logger),
		handler.NewRedirectHandler(svc, logger),
		handler.NewHealthHandler(svc),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	srv := server.New(server.Options{
		Addr:            cfg.Addr(),
		Handler:         router,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	srv.OnShutdown("storage backend", func(context.Context) error {
		return backend.Close()
	})
	srv.OnShutdown("click tracker", svc.Drain)

	return srv.Run()
}

func newBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.StorageDriver {
	case "memory":
		return storage.NewMemory(), nil
	case "file":
		return storage.NewFile(cfg.StorageDir)
	case "redis":
		return storage.NewRedis(ctx, cfg.RedisURL)
	case "postgres":
		return storage.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" || cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
