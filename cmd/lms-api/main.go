package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/carbonjar/lms/internal/api"
	"github.com/carbonjar/lms/internal/config"
	"github.com/carbonjar/lms/internal/db"
	"github.com/carbonjar/lms/internal/logging"
	"github.com/carbonjar/lms/internal/metrics"
	"github.com/carbonjar/lms/internal/storage"
)

const shutdownGrace = 10 * time.Second

func main() {
	migrate := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDir := flag.String("migrate-dir", "migrations/core", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, *migrate, *migrateDir); err != nil {
		logger.Fatal().Err(err).Msg("certificate API stopped")
	}
}

func run(ctx context.Context, logger zerolog.Logger, cfg *config.Config, migrate bool, migrateDir string) error {
	if migrate {
		version, err := db.RunMigrations(ctx, cfg.DatabaseURL, migrateDir)
		if err != nil {
			return err
		}
		logger.Info().Str("dir", migrateDir).Int64("version", version).Msg("database schema up to date")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	metrics.RegisterPgxPoolMetrics(pool)

	var store api.DocumentStore
	if cfg.StorageEnabled() {
		client := storage.NewClient(storage.Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		store = storage.NewStore(logger, client, cfg.S3Bucket, cfg.S3PublicBaseURL)
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("certificate document storage enabled")
	}

	httpServer := &http.Server{
		Addr:        cfg.HTTPListenAddr,
		Handler:     api.NewServer(logger, pool, store, cfg),
		ReadTimeout: 30 * time.Second,
		// Proxied documents stream for up to the upstream timeout.
		WriteTimeout: cfg.ProxyTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting certificate API server")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
