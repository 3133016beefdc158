package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vare7/cloud-db-inventory/internal/config"
	"github.com/vare7/cloud-db-inventory/internal/core"
	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/logging"
	"github.com/vare7/cloud-db-inventory/internal/s3source"
	"github.com/vare7/cloud-db-inventory/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if ok, err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("failed to read .env file", "error", err)
		os.Exit(1)
	} else if ok {
		slog.Info("loaded .env file (overwriting existing env vars)")
	} else {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"duplicate_key", cfg.Import.DuplicateKey,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"sync_enabled", cfg.Sync.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			slog.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
	}

	service, err := core.NewService(database.NewStore(pool), cfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}
	if err := service.SeedDefaultTenants(ctx); err != nil {
		slog.Error("failed to seed tenants", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	if cfg.Sync.Enabled {
		awsCfg, err := s3source.LoadAWSConfig(ctx)
		if err != nil {
			slog.Error("failed to load AWS configuration", "error", err)
			os.Exit(1)
		}
		fetcher := s3source.New(awsCfg, cfg.Sync.Endpoint, cfg.Import.MaxFileSize)
		go service.StartSyncScheduler(jobCtx, fetcher, core.SyncConfig{
			Bucket:       cfg.Sync.Bucket,
			AWSKey:       cfg.Sync.AWSKey,
			AzureKey:     cfg.Sync.AzureKey,
			Interval:     cfg.Sync.Interval,
			DeleteAbsent: cfg.Sync.DeleteAbsent,
		})
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if st := service.ImportLimiterStatus(); st.Active > 0 {
			slog.Info("waiting for imports to complete", "active", st.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
