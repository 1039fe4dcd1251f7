package checkout

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/config"
)

// Module provides the checkout gateway.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (Gateway, error) {
	return NewHTTPClient(
		p.Config.CheckoutAddress,
		p.Config.CheckoutPublicKey,
		p.Config.CheckoutSecretKey,
		p.Config.RequestTimeout,
		p.Logger,
	)
}
