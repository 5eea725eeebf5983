package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tutorlink/internal/api"
	"tutorlink/internal/config"
	"tutorlink/internal/db"
	"tutorlink/internal/observability"
	"tutorlink/internal/security"
	"tutorlink/internal/service"
	"tutorlink/internal/session"
)

// App agrupa el cliente, la sesión y los servicios que comparten el portal y tutorctl.
type App struct {
	Logger   *zap.Logger
	Metrics  *observability.Collector
	Registry *prometheus.Registry

	Client *api.Client
	Store  *session.Store
	Tokens *session.TokenStore

	Auth    *service.AuthService
	Browse  *service.BrowseService
	Profile *service.ProfileService
	Contact *service.ContactService

	closers []func()
}

// New arma todo el grafo de dependencias a partir de la configuración.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = observability.OrNop(logger)
	a := &App{Logger: logger, Registry: prometheus.NewRegistry()}
	a.Metrics = observability.NewCollector(a.Registry)

	if err := os.MkdirAll(cfg.SessionDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	redisClient := a.redis(ctx, cfg)

	durable, err := a.durable(ctx, cfg, redisClient)
	if err != nil {
		a.Close()
		return nil, err
	}

	jar, err := session.NewJar(cfg.APIBaseURL, filepath.Join(cfg.SessionDir, cfg.SessionProfile+".cookies.json"),
		session.WithJarLogger(logger),
		session.WithJarMetrics(a.Metrics),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	cookies, err := session.NewCookiePersistence(jar, cfg.APIBaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("cookie mirror: %w", err)
	}

	a.Tokens = session.NewTokenStore(durable, cfg.SessionTTL())
	a.Client = api.NewClient(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Jar: jar, Timeout: cfg.APITimeout()}),
		api.WithTokenStore(a.Tokens),
		api.WithRefreshURL(cfg.RefreshURL()),
		api.WithLogger(logger),
		api.WithMetrics(a.Metrics),
		api.WithRateLimit(cfg.APIRatePerSecond),
	)

	a.Store = session.NewStore(session.Mirrors{
		Durable: durable,
		Tab:     session.NewMemoryPersistence(),
		Cookie:  cookies,
	}, a.Client, logger,
		session.WithTTL(cfg.SessionTTL()),
		session.WithMetrics(a.Metrics),
		session.WithLogoutHook(func() {
			a.Metrics.RecordLogout()
			logger.Info("session closed, login required", zap.String("profile", cfg.SessionProfile))
		}),
	)

	var limiter service.SubmissionLimiter
	if redisClient != nil {
		limiter = service.NewRedisSubmissionLimiter(redisClient, cfg.SubmissionWindow(), cfg.SubmissionLimit)
	} else {
		limiter = service.NewSubmissionLimiter(cfg.SubmissionWindow(), cfg.SubmissionLimit)
	}

	sanitizer := security.NewSanitizer()
	a.Auth = service.NewAuthService(logger, a.Client, a.Store, a.Tokens)
	a.Browse = service.NewBrowseService(logger, a.Client, sanitizer)
	a.Profile = service.NewProfileService(logger, a.Client, a.Store)
	a.Contact = service.NewContactService(logger, a.Client, a.Store, limiter, sanitizer)
	return a, nil
}

// Close libera las conexiones abiertas por New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) redis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		a.Logger.Warn("redis ping failed", zap.Error(err))
		client.Close()
		return nil
	}
	a.closers = append(a.closers, func() { client.Close() })
	return client
}

func (a *App) durable(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (session.Persistence, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		if redisClient == nil {
			return nil, errors.New("session backend redis requires a reachable REDIS_ADDR")
		}
		return session.NewRedisPersistence(redisClient, cfg.SessionProfile), nil
	case config.SessionBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("session backend postgres requires DATABASE_URL")
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		return a.postgres(ctx, pool, cfg.SessionProfile)
	case config.SessionBackendFile, "":
		return session.NewFilePersistence(filepath.Join(cfg.SessionDir, cfg.SessionProfile+".session.json")), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func (a *App) postgres(ctx context.Context, pool *pgxpool.Pool, profile string) (session.Persistence, error) {
	if err := db.Ping(ctx, pool); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	p := session.NewPostgresPersistence(pool, profile)
	if err := p.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure session schema: %w", err)
	}
	return p, nil
}
