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

	"github.com/carbonjar/lms/internal/config"
	"github.com/carbonjar/lms/internal/logging"
	"github.com/carbonjar/lms/internal/mcpserver"
)

func main() {
	configPath := flag.String("config", "mcp.yaml", "Path to the MCP tool configuration")
	addr := flag.String("addr", ":8090", "Listen address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.NewLogger(&config.Config{ServiceName: "certificate-mcp", LogLevel: *logLevel})

	cfg, err := mcpserver.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load MCP config")
	}
	if v := os.Getenv("MCP_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("MCP_ADDR"); v != "" {
		*addr = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, logger, cfg, *addr); err != nil {
		logger.Fatal().Err(err).Msg("MCP server stopped")
	}
}

func serve(ctx context.Context, logger zerolog.Logger, cfg *mcpserver.Config, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      mcpserver.New(cfg, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Timeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", addr).Str("api_url", cfg.APIURL).Msg("MCP server starting")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve mcp: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
