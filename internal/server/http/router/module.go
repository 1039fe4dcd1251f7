package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/server/http/handlers"
	"github.com/punterhub/wallet/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newEngine)

type engineParams struct {
	fx.In

	Facade  handlers.Facade
	Live    handlers.LiveServer
	Limiter middleware.Limiter
	Health  []handlers.HealthCheck `group:"health"`
	Logger  *slog.Logger
}

func newEngine(p engineParams) *gin.Engine {
	return Setup(p.Facade, p.Live, p.Limiter, p.Health, p.Logger)
}
