package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/config"
	"github.com/punterhub/wallet/internal/live"
	"github.com/punterhub/wallet/internal/server/http/handlers"
	"github.com/punterhub/wallet/internal/server/http/middleware"
	"github.com/punterhub/wallet/internal/storage/postgres"
	"github.com/punterhub/wallet/internal/storage/redis"
	"github.com/punterhub/wallet/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewWalletFacade,
		func(f *WalletFacade) handlers.Facade { return f },
		func(h *live.Hub) handlers.LiveServer { return h },
		func(h *live.Hub) Views { return h },
		func(l *redis.RateLimiter) middleware.Limiter { return l },
		fx.Annotate(postgresHealth, fx.ResultTags(`group:"health"`)),
		fx.Annotate(redisHealth, fx.ResultTags(`group:"health"`)),
		newHTTPServer,
		newBalancePoller,
	),
	fx.Invoke(registerLifecycle),
)

func postgresHealth(s *postgres.Storage) handlers.HealthCheck {
	return handlers.HealthCheck{Name: "postgres", Check: s.HealthCheck}
}

func redisHealth(s *redis.Store) handlers.HealthCheck {
	return handlers.HealthCheck{Name: "redis", Check: s.HealthCheck}
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type pollerParams struct {
	fx.In

	Facade *WalletFacade
	Hub    *live.Hub
	Config *config.Config
	Logger *slog.Logger
}

func newBalancePoller(p pollerParams) *worker.BalancePoller {
	return worker.NewBalancePoller(
		p.Facade,
		p.Hub,
		p.Config.BalancePollInterval,
		p.Config.PollWorkers,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Poller     *worker.BalancePoller
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting wallet", slog.String("addr", p.Server.Addr))
			p.Poller.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Poller.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("wallet stopped")
			return nil
		},
	})
}
