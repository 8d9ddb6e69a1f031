// Package app builds the application container shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"marketplace-api/config"
	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/auth"
	"marketplace-api/internal/authz"
	"marketplace-api/internal/database"
	"marketplace-api/internal/services"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/storage/memory"
	"marketplace-api/internal/storage/postgres"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	Store       storage.Store
	RedisClient *redis.Client // nil when Redis is not configured
	Validator   *validator.Validate
	Verifier    *auth.Verifier
	AuthLimiter middleware.RateLimiter // nil disables rate limiting

	Profiles     services.ProfileService
	Jobs         services.JobService
	Applications services.ApplicationService
	Payments     services.PaymentService
	Dashboard    services.DashboardService
	Auth         services.AuthService
}

// New connects the configured backends and wires the services.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	store, err := openStore(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	a, err := Wire(cfg, store, redisClient)
	if err != nil {
		store.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	return a, nil
}

// Wire builds the container around already opened backends.
func Wire(cfg *config.Config, store storage.Store, redisClient *redis.Client) (*Application, error) {
	guard, err := authz.NewGuard()
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization guard: %w", err)
	}

	var revocations auth.RevocationStore
	var limiter middleware.RateLimiter
	if redisClient != nil {
		revocations = auth.NewRedisRevocationStore(redisClient)
		if cfg.RateLimit.AuthRequests > 0 {
			limiter = middleware.NewRedisRateLimiter(redisClient, cfg.RateLimit, "ratelimit:auth")
		}
	} else {
		log.Warn("Redis not configured: token revocations and rate limits are kept in process memory")
		revocations = auth.NewMemoryRevocationStore()
		if cfg.RateLimit.AuthRequests > 0 && cfg.RateLimit.Window > 0 {
			limiter = middleware.NewLocalRateLimiter(cfg.RateLimit)
		}
	}

	var provider auth.Provider
	switch cfg.Auth.Provider {
	case "supabase":
		provider = auth.NewSupabaseProvider(cfg.Auth.SupabaseURL, cfg.Auth.SupabaseAnonKey)
	default:
		provider = auth.NewLocalProvider(store.Credentials(), auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	}
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, revocations)

	profiles := services.NewProfileService(store, guard)
	return &Application{
		Config:       cfg,
		Store:        store,
		RedisClient:  redisClient,
		Validator:    validator.New(),
		Verifier:     verifier,
		AuthLimiter:  limiter,
		Profiles:     profiles,
		Jobs:         services.NewJobService(store, guard),
		Applications: services.NewApplicationService(store, guard),
		Payments:     services.NewPaymentService(store),
		Dashboard:    services.NewDashboardService(store),
		Auth:         services.NewAuthService(provider, verifier, profiles),
	}, nil
}

func openStore(ctx context.Context, cfg config.DBConfig) (storage.Store, error) {
	if cfg.Driver == "memory" {
		log.Warn("Using the in-memory store: data is lost on restart")
		return memory.NewStore(), nil
	}

	if cfg.MigrateOnStart {
		if err := database.MigrateUp(cfg); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	pool, err := database.NewConnectionPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewStore(pool), nil
}

// HealthChecks lists the dependencies reported by the health endpoint.
func (a *Application) HealthChecks() map[string]handlers.PingFunc {
	checks := map[string]handlers.PingFunc{"store": a.Store.Ping}
	if a.RedisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return a.RedisClient.Ping(ctx).Err() }
	}
	return checks
}

// Close releases the backends.
func (a *Application) Close() {
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			log.WithError(err).Warn("Closing redis client")
		}
	}
	a.Store.Close()
}
