// Package web provides the HTTP server, HTML pages and JSON API for browsing
// and comparing firms.
package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/PropCompare/internal/config"
	"github.com/JonMunkholm/PropCompare/internal/core"
	"github.com/JonMunkholm/PropCompare/internal/logging"
	"github.com/JonMunkholm/PropCompare/internal/store"
	"github.com/JonMunkholm/PropCompare/internal/web/middleware"
)

// ActivityLister reads the recorded activity trail. *store.ActivityStore
// satisfies it.
type ActivityLister interface {
	Recent(ctx context.Context, opts store.RecentOptions) ([]core.ActivityEntry, error)
}

// Server is the HTTP front end over a SessionManager.
type Server struct {
	sessions *core.SessionManager
	activity ActivityLister
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
}

// NewServer wires the middleware stack and routes. activity may be nil, in
// which case the activity endpoint is not mounted.
func NewServer(sessions *core.SessionManager, activity ActivityLister, cfg *config.Config) *Server {
	s := &Server{
		sessions: sessions,
		activity: activity,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(middleware.NewRateLimiter(s.cfg.Rate.RequestsPerMinute).Middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	// Filter applications hit the remote catalog, so they get a tighter limit.
	filterLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled && s.cfg.Rate.FilterLimit > 0 {
		filterLimit = middleware.NewRateLimiter(s.cfg.Rate.FilterLimit).Middleware
	}

	// Pages and HTMX partials
	s.router.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleIndex)
		r.Get("/firms", s.handleFirmList)
		r.Get("/firms/{firmID}", s.handleFirmDetail)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/compare", s.handleCompare)

		r.With(filterLimit).Post("/filters", s.handleApplyFilters)
		r.Post("/filters/reset", s.handleResetFilters)
		r.Post("/selection/clear", s.handleClearSelection)
		r.Post("/selection/{firmID}", s.handleToggleSelection)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Get("/", s.handleAPIState)
			r.Get("/firms", s.handleAPIFirms)
			r.Get("/firms/{firmID}", s.handleAPIFirm)
			r.Get("/statistics", s.handleAPIStatistics)
			r.With(filterLimit).Post("/filters", s.handleAPIApplyFilters)
			r.Post("/filters/reset", s.handleAPIResetFilters)
			r.Post("/selection/{firmID}", s.handleAPIToggleSelection)
			r.Delete("/selection", s.handleAPIClearSelection)
			r.Get("/compare", s.handleAPICompare)
		})

		r.With(s.sessionMiddleware).Get("/suggestions", s.handleAPISuggestions)

		if s.activity != nil {
			r.With(middleware.APIKeyAuth(s.cfg.Security.RequireAPIKey, s.cfg.Security.APIKeys)).
				Get("/activity", s.handleActivity)
		}
	})
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	logging.FromContext(context.Background()).Info("starting server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// cspPolicy allows the HTMX bundle from unpkg and nothing else off-site.
const cspPolicy = "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; connect-src 'self'; frame-ancestors 'none'"

func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", cspPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}
