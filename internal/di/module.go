package di

import (
	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/adapter/backend"
	"github.com/punterhub/wallet/internal/adapter/checkout"
	"github.com/punterhub/wallet/internal/app"
	"github.com/punterhub/wallet/internal/config"
	"github.com/punterhub/wallet/internal/live"
	"github.com/punterhub/wallet/internal/logger"
	"github.com/punterhub/wallet/internal/pkg/auth"
	"github.com/punterhub/wallet/internal/server/http/router"
	"github.com/punterhub/wallet/internal/storage/postgres"
	"github.com/punterhub/wallet/internal/storage/redis"
	"github.com/punterhub/wallet/internal/usecase"
)

// Module assembles the whole wallet service. Extra options are appended last
// so callers can replace any part of the graph.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		redis.Module,
		backend.Module,
		checkout.Module,
		usecase.Module,
		live.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
