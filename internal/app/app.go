package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/softmatrices/forique-sub000/internal/catalog"
	"github.com/softmatrices/forique-sub000/internal/config"
	"github.com/softmatrices/forique-sub000/internal/event"
	handler "github.com/softmatrices/forique-sub000/internal/handler/http"
	"github.com/softmatrices/forique-sub000/internal/repository"
	"github.com/softmatrices/forique-sub000/internal/repository/breaker"
	"github.com/softmatrices/forique-sub000/internal/repository/memory"
	redisrepo "github.com/softmatrices/forique-sub000/internal/repository/redis"
	"github.com/softmatrices/forique-sub000/internal/service"
	"github.com/softmatrices/forique-sub000/pkg/database"
	"github.com/softmatrices/forique-sub000/pkg/health"
	pkgkafka "github.com/softmatrices/forique-sub000/pkg/kafka"
	"github.com/softmatrices/forique-sub000/pkg/middleware"
	"github.com/softmatrices/forique-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	memRepo        *memory.SessionRepository
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	health         *health.Handler
	tracerShutdown func(context.Context) error
	stopBackground context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Load the marketplace fixtures.
	cat, err := loadCatalog(cfg.FixturesPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		slog.Int("products", len(cat.Products)),
		slog.Int("orders", len(cat.Orders)),
		slog.Int("sellers", len(cat.Sellers)),
	)

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}
	healthHandler := health.NewHandler()
	a.health = healthHandler
	healthHandler.Register("catalog", func(context.Context) error {
		if len(cat.Products) == 0 {
			return errors.New("catalog has no products")
		}
		return nil
	})

	// Session storage.
	repo, err := a.initSessionRepository(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	// Domain events.
	var publisher event.Publisher = event.NoopPublisher{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		if err := pingKafkaWithRetry(ctx, a.producer, logger); err != nil {
			logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
		publisher = event.NewProducer(a.producer, logger)
		healthHandler.RegisterOptional("kafka", a.producer.Ping)
	}

	// Build the dependency graph.
	services := handler.Services{
		Session:   service.NewSessionService(repo, publisher, cat, logger, cfg.SessionTTL(), cfg.RecentlyViewedLimit),
		Listing:   service.NewListingService(cat, logger),
		Dashboard: service.NewDashboardService(cat, cfg.LowStockThreshold),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	bgCtx, stopBackground := context.WithCancel(context.Background())
	a.stopBackground = stopBackground

	// HTTP router.
	router := handler.NewRouter(bgCtx, services, healthHandler, logger, handler.RouterOptions{
		CORS:           corsCfg,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// initSessionRepository builds the configured session backend and registers
// its health check.
func (a *App) initSessionRepository(ctx context.Context, hh *health.Handler) (repository.SessionRepository, error) {
	ttl := a.cfg.SessionTTL()

	if a.cfg.SessionBackend == config.BackendMemory {
		a.memRepo = memory.NewSessionRepository(ttl)
		a.logger.Info("using in-memory session store", slog.Duration("ttl", ttl))
		return a.memRepo, nil
	}

	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = a.cfg.RedisAddr
	redisCfg.Password = a.cfg.RedisPass
	redisCfg.DB = a.cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.rdb = rdb
	a.logger.Info("connected to Redis",
		slog.String("addr", a.cfg.RedisAddr),
		slog.Int("db", a.cfg.RedisDB),
	)

	hh.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	return breaker.NewSessionRepository(
		redisrepo.NewSessionRepository(rdb, ttl),
		breaker.DefaultConfig("redis-session-store"),
		a.logger,
	), nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: HTTP server, tracer,
// background jobs, Kafka producer, then the session store.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")
	a.health.SetDraining()

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush spans after the HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.stopBackground != nil {
		a.stopBackground()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.memRepo != nil {
		a.memRepo.Close()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// pingKafkaWithRetry attempts to ping the Kafka producer with exponential
// backoff (3 attempts, 1s/2s with ±25% jitter between them).
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		lastErr = producer.Ping(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt < 2 {
			base := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
			wait := base + jitter
			logger.Warn("kafka producer ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", 3),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("kafka producer ping failed after 3 attempts: %w", lastErr)
}
