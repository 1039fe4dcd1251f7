package live

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/config"
)

// Module provides the live view hub.
var Module = fx.Options(
	fx.Provide(newHub),
	fx.Invoke(registerLifecycle),
)

func newHub(cfg *config.Config, logger *slog.Logger) *Hub {
	return NewHub(cfg.AllowedOrigin, logger)
}

func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Shutdown()
			return nil
		},
	})
}
