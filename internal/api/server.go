package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/carbonjar/lms/internal/api/handler"
	mw "github.com/carbonjar/lms/internal/api/middleware"
	"github.com/carbonjar/lms/internal/asset"
	"github.com/carbonjar/lms/internal/config"
	"github.com/carbonjar/lms/internal/core"
)

// Database is the pool the server queries and probes for readiness.
type Database interface {
	core.DB
	Ping(ctx context.Context) error
}

// DocumentStore stores uploaded certificate PDFs.
type DocumentStore interface {
	handler.DocumentStore
	Ping(ctx context.Context) error
}

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	db       Database
	store    DocumentStore
	cfg      *config.Config
}

// NewServer wires the router. store may be nil when object storage is not
// configured.
func NewServer(logger zerolog.Logger, db Database, store DocumentStore, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: core.NewServices(db),
		db:       db,
		store:    store,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	presenter := &handler.Presenter{
		Resolver:        asset.NewResolver(asset.DefaultProxyPath, s.cfg.StorageAllowedHosts),
		PublicBaseURL:   s.cfg.PublicBaseURL,
		LinkedInOrgID:   s.cfg.LinkedInOrgID,
		FallbackPreview: s.cfg.AssetFallbackPreview,
	}

	var docs handler.DocumentStore
	if s.store != nil {
		docs = s.store
	}

	certificate := handler.NewCertificate(s.services.Certificate, presenter, docs)
	verification := handler.NewVerification(s.services.Certificate, presenter)
	proxy := handler.NewAssetProxy(asset.NewGateway(s.cfg.StorageAllowedHosts, s.cfg.ProxyTimeout))
	verifier := mw.NewTokenVerifier(s.cfg.IDPJWTSecret, s.cfg.IDPJWTIssuer)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Public credential pages and their documents.
		r.Get("/verify/{slug}", verification.Verify)
		r.Get("/certificates/proxy", proxy.Serve)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(verifier))

			r.Get("/me/certificates", certificate.ListMine)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(mw.RoleMentor, mw.RoleAdmin))

				r.Get("/credentials/{key}", verification.Lookup)
				r.Get("/certificates", certificate.List)
				r.Post("/certificates", certificate.Create)
				r.Get("/certificates/{id}", certificate.Get)
				r.Patch("/certificates/{id}", certificate.Update)
				r.Put("/certificates/{id}/pdf", certificate.UploadPDF)
			})

			r.With(mw.RequireRole(mw.RoleAdmin)).Delete("/certificates/{id}", certificate.Delete)
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var mu sync.Mutex
	checks := map[string]string{}
	record := func(name string, err error) error {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = err.Error()
			return err
		}
		checks[name] = "ok"
		return nil
	}

	// Probes share no cancellation; each one reports.
	var g errgroup.Group
	g.Go(func() error { return record("db", s.db.Ping(ctx)) })
	if s.store != nil {
		g.Go(func() error { return record("storage", s.store.Ping(ctx)) })
	}
	healthy := g.Wait() == nil

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
