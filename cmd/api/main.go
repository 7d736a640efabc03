package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"calculator-api/internal/calculator"
	"calculator-api/internal/config"
	"calculator-api/internal/history"
	"calculator-api/internal/observability"
	"calculator-api/internal/ratelimit"
	"calculator-api/internal/server"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// OTLP log bridge
	logShutdown, err := observability.InitLogging(ctx, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer logShutdown(ctx)

	logger := observability.Logger

	// History store
	store := newStore(ctx, cfg, logger)
	defer store.Close()

	// Rate limiter
	rateLimit := newRateLimit(ctx, cfg, logger)

	svc := calculator.NewService(store, logger)

	router := server.NewRouter(server.Deps{
		Environment: cfg.Environment,
		Calculator:  svc,
		Store:       store,
		RateLimit:   rateLimit,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv, cfg)
}

// newStore picks the history backend: Postgres when DATABASE_URL is set,
// otherwise in-memory.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) history.Store {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, history is kept in memory")
		return history.NewMemoryStore()
	}

	store, err := history.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect history store", zap.Error(err))
	}

	logger.Info("history store connected")
	return store
}

// newRateLimit builds the Redis-backed limiter middleware, or nil when
// disabled or unreachable.
func newRateLimit(ctx context.Context, cfg *config.Config, logger *zap.Logger) func(http.Handler) http.Handler {
	if !cfg.RateLimitEnabled() {
		logger.Info("rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
		return nil
	}

	logger.Info("rate limiting enabled",
		zap.String("redis", cfg.RedisAddr),
		zap.Int("per_minute", cfg.RateLimitPerMinute),
	)

	limiter := ratelimit.NewLimiter(client, "ratelimit:")
	return ratelimit.Middleware(limiter, cfg.RateLimitPerMinute)
}

func waitForShutdown(srv *http.Server, cfg *config.Config) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	srv.Shutdown(ctx)
}
