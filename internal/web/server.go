// Package web provides the HTTP API of the database inventory.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/vare7/cloud-db-inventory/internal/config"
	"github.com/vare7/cloud-db-inventory/internal/core"
	appmw "github.com/vare7/cloud-db-inventory/internal/web/middleware"
)

// Server is the HTTP server for the inventory API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server with its middleware and routes.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(appmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(appmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(appmw.APIKeyAuth(&s.cfg.Security))

		r.Group(func(r chi.Router) {
			if s.cfg.Server.RequestTimeout > 0 {
				r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
			}

			// Records
			r.Get("/records", s.handleListRecords)
			r.Post("/records", s.handleCreateRecord)
			r.Get("/records/{id}", s.handleGetRecord)
			r.Patch("/records/{id}/status", s.handleUpdateStatus)
			r.Delete("/records/{id}", s.handleDeleteRecord)

			// Import history
			r.Get("/imports", s.handleListImports)
			r.Get("/imports/status", s.handleImportStatus)

			// Reports
			r.Get("/stats", s.handleStats)
			r.Get("/metrics", s.handleMetrics)
			r.Get("/upgrades", s.handleUpgrades)
			r.Get("/duplicates", s.handleDuplicates)
			r.Get("/filter-options", s.handleFilterOptions)

			// Exports
			r.Get("/export.csv", s.handleExport("csv"))
			r.Get("/export.xlsx", s.handleExport("xlsx"))

			// Names
			r.Get("/tenants", s.handleListTenants)
			r.Put("/tenants/{id}", s.handleRenameTenant)
			r.Get("/accounts", s.handleListAccounts)

			// Azure VMs
			r.Get("/azure-vms", s.handleListAzureVMs)
			r.Delete("/azure-vms", s.handlePurgeAzureVMs)
			r.Get("/azure-vms/filter-options", s.handleAzureVMFilterOptions)
			r.Get("/azure-vms/{id}", s.handleGetAzureVM)
			r.Delete("/azure-vms/{id}", s.handleDeleteAzureVM)
		})

		// Writes that scan or rewrite the inventory share a stricter bucket
		// and run under the import timeout instead of the request timeout.
		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(newRateLimiter(s.cfg.Rate.ImportLimit).middleware)
			}
			r.Post("/import", s.handleImport)
			r.Post("/accounts/import", s.handleImportAccounts)
			r.Post("/azure-vms/import-csv", s.handleImportAzureVMs)
			r.Post("/duplicates/resolve", s.handleResolveDuplicates)
		})
	})
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: max(s.cfg.Server.WriteTimeout, s.cfg.Import.Timeout),
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
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

func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter keeps one token bucket per client IP. Buckets refill at
// perMinute tokens per minute with a burst of perMinute.
type rateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	perMinute int
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &rateLimiter{
		visitors:  make(map[string]*visitor),
		perMinute: perMinute,
		lastSweep: time.Now(),
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondErrorJSON(w, core.MapError(errRateLimited), http.StatusTooManyRequests, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
