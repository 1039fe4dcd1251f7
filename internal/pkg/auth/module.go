package auth

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/config"
)

// Module provides session token and sealing primitives via fx.
var Module = fx.Options(
	fx.Provide(newSealer),
	fx.Provide(newTokenStrategy),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newSealer(p strategyParams) Sealer {
	return NewSecretboxSealer(p.Config.SessionSecret)
}

func newTokenStrategy(p strategyParams) (Strategy, error) {
	opts := Options{TTL: p.Config.SessionTTL}
	switch p.Config.TokenStrategy {
	case "", "jwt":
		return NewJWTStrategy(p.Config.SessionSecret, opts), nil
	case "hmac":
		return NewHMACStrategy(p.Config.SessionSecret, opts), nil
	default:
		return nil, fmt.Errorf("unknown token strategy %q", p.Config.TokenStrategy)
	}
}
