package redis

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/config"
	"github.com/punterhub/wallet/internal/domain/repository"
	pkgAuth "github.com/punterhub/wallet/internal/pkg/auth"
)

// Module wires the Redis store, its repositories and the resolve rate limiter.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(
		func(s *Store) repository.SessionRepository { return s.Sessions() },
		func(s *Store) repository.SnapshotRepository { return s.Snapshots() },
		newResolveLimiter,
	),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Config *config.Config
	Sealer pkgAuth.Sealer
	Logger *slog.Logger
}

func newStore(p storeParams) (*Store, error) {
	return New(Options{
		Addr:        p.Config.RedisAddress,
		Password:    p.Config.RedisPassword,
		DB:          p.Config.RedisDB,
		SnapshotTTL: p.Config.SessionTTL,
	}, p.Sealer, p.Logger)
}

func newResolveLimiter(s *Store, cfg *config.Config) *RateLimiter {
	return s.Limiter(cfg.ResolveRateLimit, cfg.ResolveRateWindow)
}

func registerLifecycle(lc fx.Lifecycle, store *Store, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.HealthCheck(ctx); err != nil {
				logger.Warn("redis not reachable at startup", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
