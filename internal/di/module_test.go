package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/app"
	"github.com/punterhub/wallet/internal/config"
	"github.com/punterhub/wallet/internal/storage/postgres"
	"github.com/punterhub/wallet/internal/storage/redis"
	"github.com/punterhub/wallet/internal/worker"
)

func testConfig() *config.Config {
	return &config.Config{
		RunAddress:          ":0",
		DatabaseURI:         "postgres://stub",
		BackendAddress:      "http://localhost:9000",
		RequestTimeout:      time.Second,
		CheckoutAddress:     "http://localhost:9001",
		CheckoutPublicKey:   "pk_test",
		CheckoutSecretKey:   "sk_test",
		RedisAddress:        "localhost:6379",
		SessionSecret:       "secret",
		SessionTTL:          time.Hour,
		BalancePollInterval: time.Millisecond,
		PollWorkers:         1,
		ShutdownTimeout:     time.Millisecond,
		ResolveRateLimit:    5,
		ResolveRateWindow:   time.Minute,
	}
}

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade *app.WalletFacade
		engine *gin.Engine
		poller *worker.BalancePoller
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(testConfig()),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(&redis.Store{}),
			fx.NopLogger,
		),
		fx.Populate(&facade, &engine, &poller),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || engine == nil || poller == nil {
		t.Fatal("expected wallet components to be built")
	}
}

func TestModuleRejectsUnknownTokenStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.TokenStrategy = "paseto"

	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(&redis.Store{}),
			fx.NopLogger,
		),
		fx.Invoke(func(*app.WalletFacade) {}),
	)
	if fxApp.Err() == nil {
		t.Fatal("expected graph error for unknown token strategy")
	}
}
