package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/config"
	"github.com/catatuang/catatuang-gateway/internal/handler"
	"github.com/catatuang/catatuang-gateway/internal/infra/cache"
	"github.com/catatuang/catatuang-gateway/internal/infra/catatuang"
	"github.com/catatuang/catatuang-gateway/internal/infra/observability"
	"github.com/catatuang/catatuang-gateway/internal/infra/resilience"
	"github.com/catatuang/catatuang-gateway/internal/infra/session"
	"github.com/catatuang/catatuang-gateway/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("session_backend", cfg.SessionBackend),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_ttl", cfg.JWTTTL),
	)

	if cfg.JWTSecret == "catatuang-default-dev-secret-change-me" {
		logger.Warn("JWT_SECRET is not set, using the development default")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "catatuang-gateway")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	lookupCache := cache.New[any](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("catatuang-api")

	// --- Upstream client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	apiClient := catatuang.NewClient(httpClient, cfg.APIBaseURL, cb, resilienceCfg, logger)

	// --- Session store ---
	var sessions session.Store
	if cfg.SessionBackend == "redis" {
		logger.Info("using Redis session store", zap.String("redis_addr", cfg.RedisAddr))
		redisStore, err := session.NewRedisStore(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		logger.Info("using in-memory session store")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	// --- Services ---
	authSvc := service.NewAuthService(apiClient, sessions, lookupCache, metrics, logger, cfg.JWTSecret, cfg.JWTTTL)
	statsSvc := service.NewStatisticsService(apiClient, apiClient, lookupCache, metrics, logger)
	ledgerSvc := service.NewLedgerService(apiClient, apiClient, lookupCache, metrics, logger)

	// Upstream 401 means the Laravel token died; drop the gateway session too.
	apiClient.SetAuthLostHandler(authSvc.HandleAuthLost)

	// --- Router ---
	router := handler.NewRouter(cfg, authSvc, statsSvc, ledgerSvc, apiClient, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
