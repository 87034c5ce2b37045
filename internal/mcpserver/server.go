package mcpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	mw "github.com/carbonjar/lms/internal/api/middleware"
	"github.com/carbonjar/lms/internal/api/response"
)

const (
	serverName    = "carbonjar-certificates"
	serverVersion = "1.0.0"
	readyTimeout  = 3 * time.Second
)

// New builds the MCP bridge handler. Tool calls are served on /mcp over the
// streamable HTTP transport; /readyz reports whether the REST API is up.
func New(cfg *Config, logger zerolog.Logger) http.Handler {
	proxy := NewProxyHandler(cfg.APIURL, cfg.Timeout(), logger)
	tools := BuildTools(cfg, proxy)

	mcpSrv := server.NewMCPServer(serverName, serverVersion,
		server.WithInstructions(cfg.Instructions),
		server.WithToolCapabilities(false),
	)
	mcpSrv.AddTools(tools...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), readyTimeout)
		defer cancel()
		if err := proxy.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("certificate API not ready")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "api": err.Error()})
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv, server.WithEndpointPath("/")))

	logger.Info().Int("tools", len(tools)).Str("api_url", cfg.APIURL).Msg("mounted MCP endpoint at /mcp")
	return r
}
