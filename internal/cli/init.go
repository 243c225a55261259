// Package cli provides the process bootstrap shared by the budget commands:
// environment loading, logging, configuration and opening the ledger.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"budget/internal/backend"
	"budget/internal/cache"
	"budget/internal/config"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/services"
)

// SetupLogger initializes structured logging on w at the given level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(w io.Writer, level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = w
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App bundles the ledger with the services the commands use.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Store    *ledger.Store
	Builder  *services.Builder
	Recorder *services.Recorder
	Reports  *services.ReportService

	backend *backend.BackendResult
}

// Open creates the configured storage provider and restores the ledger from it.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	store, err := ledger.Open(ctx, res.KV,
		ledger.WithKey(cfg.StorageKey),
		ledger.WithCurrency(cfg.Currency),
		ledger.WithLogger(logger))
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("restore ledger: %w", err)
	}

	var reportCache cache.Cache[services.ReportKey, services.Breakdown] = cache.Nop[services.ReportKey, services.Breakdown]{}
	if cfg.ReportCacheSize > 0 {
		reportCache = cache.NewLRU[services.ReportKey, services.Breakdown](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	}

	builder := services.NewBuilder(store, logger)
	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Builder:  builder,
		Recorder: services.NewRecorder(store, builder, logger),
		Reports: services.NewReportService(store,
			services.WithCache(reportCache),
			services.WithPageSize(cfg.PageSize),
			services.WithReportLogger(logger)),
		backend: res,
	}, nil
}

// Close releases the storage provider.
func (a *App) Close() error {
	return a.backend.Close()
}

// Fatal logs err and exits with status 1.
func Fatal(logger *log.Logger, msg string, err error) {
	logger.Error(msg, log.FieldError, err, log.FieldErrorType, log.ErrorType(err))
	os.Exit(1)
}
