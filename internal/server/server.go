package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/auth"
	"github.com/dropa-gg/dropa/internal/catalog"
	"github.com/dropa-gg/dropa/internal/daily"
	"github.com/dropa-gg/dropa/internal/database"
	"github.com/dropa-gg/dropa/internal/handler"
	"github.com/dropa-gg/dropa/internal/metrics"
	"github.com/dropa-gg/dropa/internal/pack"
	"github.com/dropa-gg/dropa/internal/reconcile"
	"github.com/dropa-gg/dropa/internal/user"
)

// Config holds the HTTP settings
type Config struct {
	Port           int
	APIKey         string
	Version        string
	TrustedProxies []string
}

// Services are the domain services the routes call
type Services struct {
	Users     user.Service
	Catalog   catalog.Service
	Packs     pack.Service
	Daily     daily.Service
	Reconcile reconcile.Service
	Audit     audit.Service
	Policy    *auth.Policy

	// Readiness lists dependencies probed by /readyz besides the database.
	Readiness []handler.Dependency
}

type Server struct {
	httpServer *http.Server
}

// NewServer wires the router into an http.Server with the package timeouts.
func NewServer(cfg Config, dbPool database.Pool, svcs Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, dbPool, svcs),
			ReadHeaderTimeout: ReadHeaderTimeout,
			WriteTimeout:      WriteTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter builds the chi router with the full middleware stack.
// Middleware executes in the order defined, outermost first.
func NewRouter(cfg Config, dbPool database.Pool, svcs Services) http.Handler {
	policy := svcs.Policy
	if policy == nil {
		policy = auth.DefaultPolicy()
	}
	proxies := NewTrustedProxies(cfg.TrustedProxies)

	r := chi.NewRouter()
	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(AuthMiddleware(cfg.APIKey, proxies, NewFailedAuthDetector()))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	// probes and scrapes sit outside /api/v1
	r.Get("/healthz", handler.HandleHealthz())
	deps := append([]handler.Dependency{{Name: DependencyDatabase, Pinger: dbPool}}, svcs.Readiness...)
	r.Get("/readyz", handler.HandleReadyz(deps...))
	r.Get("/version", handler.HandleVersion(cfg.Version))
	r.Handle("/metrics", promhttp.Handler())

	me := handler.NewMeHandlers(svcs.Users)
	admin := handler.NewAdminHandlers(svcs.Reconcile, svcs.Audit, svcs.Catalog, svcs.Users)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(IdentityMiddleware(svcs.Users))

		r.Route("/packs", func(r chi.Router) {
			r.Get("/", handler.HandleListPacks(svcs.Catalog))
			r.Get("/{packID}", handler.HandleGetPack(svcs.Catalog))
			r.Post("/{packID}/open", handler.HandleOpenPack(svcs.Packs))
		})
		r.Get("/achievements", handler.HandleListAchievements(svcs.Catalog))

		r.Route("/daily", func(r chi.Router) {
			r.Get("/status", handler.HandleGetDailyStatus(svcs.Daily))
			r.Post("/claim", handler.HandleClaimDaily(svcs.Daily))
		})

		r.Post("/free-pack", handler.HandleGenerateFreePack(svcs.Packs))
		r.Get("/grants", handler.HandleListGrants(svcs.Packs))
		r.Post("/grants/{grantID}/claim", handler.HandleClaimGrant(svcs.Packs))

		r.Route("/me", func(r chi.Router) {
			r.Get("/stats", me.HandleGetStats())
			r.Get("/items", me.HandleListItems())
			r.Get("/openings", me.HandleListOpenings())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/stats", func(r chi.Router) {
				r.Use(RequireCapability(policy, auth.CapReconcileStats))
				r.Get("/consistency", admin.HandleCheckConsistency())
				r.Post("/fix/{userID}", admin.HandleFixStats())
				r.Post("/fix-all", admin.HandleFixAllStats())
			})
			r.With(RequireCapability(policy, auth.CapReadAudit)).Get("/audit", admin.HandleListAudit())
			r.Group(func(r chi.Router) {
				r.Use(RequireCapability(policy, auth.CapManageCatalog))
				r.Post("/catalog/invalidate", admin.HandleInvalidateCatalog())
				r.Get("/cache/stats", admin.HandleGetCacheStats())
			})
			r.Route("/users", func(r chi.Router) {
				r.Use(RequireCapability(policy, auth.CapManageUsers))
				r.Post("/", admin.HandleRegisterUser())
				r.Post("/{userID}/credits", admin.HandleAddCredits())
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// Start starts the server. It returns http.ErrServerClosed after Stop.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
