package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/config"
	"github.com/catatuang/catatuang-gateway/internal/infra/observability"
	"github.com/catatuang/catatuang-gateway/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger checks upstream reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(
	cfg *config.Config,
	authSvc *service.AuthService,
	statsSvc *service.StatisticsService,
	ledgerSvc *service.LedgerService,
	upstream Pinger,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(metricsMiddleware(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(upstream, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/internal", func(r chi.Router) {
		r.Use(BasicAuthAdmin(cfg.AdminPasswordHash, logger))
		r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, metrics.GetSnapshot())
		})
	})

	authLimiter := NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, logger)
	requireAuth := JWTAuthMiddleware(authSvc, logger)

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Authentication. Login and register are rate limited per IP.
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/login", authLoginHandler(authSvc, logger))
				r.Post("/register", authRegisterHandler(authSvc, logger))
			})
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authLogoutHandler(authSvc, logger))
				r.Get("/check", authCheckHandler(authSvc, logger))
			})
		})

		// Everything below requires a gateway session token.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/profile", profileGetHandler(logger))
			r.Put("/profile", profileUpdateHandler(authSvc, logger))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoriesListHandler(ledgerSvc, logger))
				r.Post("/", categoryCreateHandler(ledgerSvc, logger))
				r.Put("/{id}", categoryUpdateHandler(ledgerSvc, logger))
				r.Delete("/{id}", categoryDeleteHandler(ledgerSvc, logger))
			})

			r.Route("/wallet-types", func(r chi.Router) {
				r.Get("/", walletTypesListHandler(ledgerSvc, logger))
				r.Post("/", walletTypeCreateHandler(ledgerSvc, logger))
				r.Put("/{id}", walletTypeUpdateHandler(ledgerSvc, logger))
				r.Delete("/{id}", walletTypeDeleteHandler(ledgerSvc, logger))
			})

			r.Route("/wallets", func(r chi.Router) {
				r.Get("/", walletsListHandler(ledgerSvc, logger))
				r.Get("/balance", walletsBalanceHandler(ledgerSvc, logger))
				r.Post("/", walletCreateHandler(ledgerSvc, logger))
				r.Put("/{id}", walletUpdateHandler(ledgerSvc, logger))
				r.Delete("/{id}", walletDeleteHandler(ledgerSvc, logger))
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", transactionsListHandler(ledgerSvc, logger))
				r.Post("/", transactionCreateHandler(ledgerSvc, logger))
				r.Get("/{id}", transactionGetHandler(ledgerSvc, logger))
				r.Put("/{id}", transactionUpdateHandler(ledgerSvc, logger))
				r.Delete("/{id}", transactionDeleteHandler(ledgerSvc, logger))
			})
			r.Get("/transactions-summary", transactionsSummaryHandler(ledgerSvc, logger))

			r.Route("/statistics", func(r chi.Router) {
				r.Get("/", statisticsHandler(statsSvc, logger))
				r.Get("/comparison", comparisonHandler(statsSvc, logger))
				r.Get("/months", comparisonMonthsHandler(statsSvc))
			})
		})
	})

	return r
}

// metricsMiddleware counts every response as success or error.
func metricsMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= 400 {
				metrics.IncrRequest("error")
			} else {
				metrics.IncrRequest("success")
			}
		})
	}
}

// healthzHandler probes the upstream with a short deadline.
func healthzHandler(upstream Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := "ok"
		upstreamStatus := "ok"
		code := http.StatusOK

		if upstream != nil {
			if err := upstream.Ping(ctx); err != nil {
				logger.Warn("healthz: upstream unreachable", zap.Error(err))
				status = "degraded"
				upstreamStatus = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, code, map[string]string{
			"status":   status,
			"upstream": upstreamStatus,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
