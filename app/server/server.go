// Package server provides the HTTP server of the repository console.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/fcon/app/server/api"
	"github.com/umputun/fcon/app/server/audit"
	"github.com/umputun/fcon/app/server/auth"
	"github.com/umputun/fcon/app/server/web"
)

// Server represents the HTTP server.
type Server struct {
	Deps
	Config
	apiHandler *api.Handler
	webHandler *web.Handler
	staticFS   fs.FS // embedded static files
}

// Config holds server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Version         string
	BaseURL         string // base URL path for reverse proxy (e.g., /fcon)

	BodySizeLimit    int64   // max request body size in bytes
	RequestsPerSec   float64 // max requests per second (rate limit)
	MaxConcurrent    int64   // max concurrent in-flight requests
	LoginConcurrency int64   // max concurrent login attempts
}

// Deps holds server dependencies.
type Deps struct {
	Repo  web.Repository
	Auth  *auth.Service // optional, nil to disable authentication
	Audit *audit.Logger // optional, nil to disable audit records
}

// New creates a new Server instance.
func New(deps Deps, cfg Config) (*Server, error) {
	if deps.Repo == nil {
		return nil, errors.New("repository client is required")
	}
	staticContent, err := web.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}

	s := &Server{
		Deps:     deps,
		Config:   cfg,
		staticFS: staticContent,
	}

	// note: optional deps are set only when not nil to avoid non-nil interfaces holding nil pointers
	webDeps := web.Deps{Repo: deps.Repo}
	apiDeps := api.Deps{Repo: deps.Repo}
	if deps.Auth != nil {
		webDeps.Auth, apiDeps.Auth = deps.Auth, deps.Auth
	}
	if deps.Audit != nil {
		webDeps.Audit, apiDeps.Audit = deps.Audit, deps.Audit
	}

	webHandler, err := web.New(webDeps, web.Config{BaseURL: cfg.BaseURL, Version: cfg.Version})
	if err != nil {
		return nil, fmt.Errorf("failed to create web handler: %w", err)
	}
	s.webHandler = webHandler
	s.apiHandler = api.New(apiDeps)

	return s, nil
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.Address,
		Handler:           s.handler(),
		ReadHeaderTimeout: s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}

	// graceful shutdown
	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] shutdown error: %v", err)
		}
	}()

	log.Printf("[DEBUG] started server on %s", s.Address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// handler returns the HTTP handler, wrapping routes with base URL support if configured.
func (s *Server) handler() http.Handler {
	routes := s.routes()
	if s.BaseURL == "" {
		return routes
	}
	mux := http.NewServeMux()
	// redirect /base to /base/
	mux.HandleFunc(s.BaseURL, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.BaseURL+"/", http.StatusMovedPermanently)
	})
	// strip prefix for all routes under base URL
	mux.Handle(s.BaseURL+"/", http.StripPrefix(s.BaseURL, routes))
	return mux
}

// routes configures and returns the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	// global middleware (applies to all routes)
	router.Use(
		rest.Recoverer(log.Default()),
		rest.RealIP, // must be before rate limiting to limit by real client IP
		s.rateLimiter(),
		rest.Throttle(s.maxConcurrent()),
		rest.Trace,
		rest.SizeLimit(s.bodySizeLimit()),
		rest.AppInfo("fcon", "umputun", s.Version),
		rest.Ping,
	)

	// determine auth middleware for protected routes
	sessionAuth, tokenAuth := noopMiddleware, noopMiddleware
	if s.Auth.Enabled() {
		sessionAuth = s.Auth.SessionMiddleware(s.url("/login"))
		tokenAuth = s.Auth.TokenMiddleware
	}

	// public routes (no auth required)
	router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))
	if s.Auth.Enabled() {
		s.webHandler.RegisterAuth(router)
		// stricter throttle on login to prevent brute-force
		s.webHandler.RegisterLogin(router, rest.Throttle(s.loginConcurrency()))
	}

	// console routes (session auth)
	router.Group().Route(func(webRouter *routegroup.Bundle) {
		webRouter.Use(sessionAuth)
		s.webHandler.Register(webRouter)
	})

	// action API routes (session or token auth, path permissions checked per action)
	router.Mount("/api").Route(func(apiRouter *routegroup.Bundle) {
		apiRouter.Use(tokenAuth)
		s.apiHandler.Register(apiRouter)
	})

	return router
}

// bodySizeLimit returns the configured body size limit, or default 64MB if not set.
// Datastream uploads go through the same limit.
func (s *Server) bodySizeLimit() int64 {
	if s.BodySizeLimit > 0 {
		return s.BodySizeLimit
	}
	return 64 * 1024 * 1024
}

// requestsPerSec returns the configured rate limit (requests per second), or default 100 if not set.
func (s *Server) requestsPerSec() float64 {
	if s.RequestsPerSec > 0 {
		return s.RequestsPerSec
	}
	return 100
}

// maxConcurrent returns the configured max concurrent in-flight requests, or default 1000 if not set.
func (s *Server) maxConcurrent() int64 {
	if s.MaxConcurrent > 0 {
		return s.MaxConcurrent
	}
	return 1000
}

// loginConcurrency returns the configured login concurrency limit, or default 5 if not set.
func (s *Server) loginConcurrency() int64 {
	if s.LoginConcurrency > 0 {
		return s.LoginConcurrency
	}
	return 5
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.ShutdownTimeout > 0 {
		return s.ShutdownTimeout
	}
	return 10 * time.Second
}

// rateLimiter returns middleware that limits requests per second using tollbooth.
func (s *Server) rateLimiter() func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(s.requestsPerSec(), &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr", IndexFromRight: 0}) // use RemoteAddr (RealIP middleware sets it)
	lmt.SetBurst(int(s.requestsPerSec()))                                    // burst equals rate limit
	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}

// url returns a URL path with the base URL prefix.
func (s *Server) url(path string) string {
	return s.BaseURL + path
}

// noopMiddleware is a pass-through middleware (used when auth is disabled).
func noopMiddleware(next http.Handler) http.Handler {
	return next
}
