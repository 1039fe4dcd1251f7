package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/punterhub/wallet/internal/config"
	"github.com/punterhub/wallet/internal/live"
	"github.com/punterhub/wallet/internal/storage/postgres"
	"github.com/punterhub/wallet/internal/storage/redis"
	testhelpers "github.com/punterhub/wallet/internal/test"
	"github.com/punterhub/wallet/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestPoller() *worker.BalancePoller {
	return worker.NewBalancePoller(&testhelpers.RefresherStub{}, &testhelpers.SubscribersStub{}, 10*time.Millisecond, 1, discardLogger())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
	if server.ReadHeaderTimeout == 0 {
		t.Fatal("expected a read header timeout")
	}
}

func TestNewBalancePollerUsesConfig(t *testing.T) {
	poller := newBalancePoller(pollerParams{
		Facade: &WalletFacade{},
		Hub:    live.NewHub("", discardLogger()),
		Config: &config.Config{BalancePollInterval: 15 * time.Second, PollWorkers: 3},
		Logger: discardLogger(),
	})
	if poller == nil {
		t.Fatal("expected balance poller instance")
	}
}

func TestHealthChecksAreNamed(t *testing.T) {
	if check := postgresHealth(&postgres.Storage{}); check.Name != "postgres" || check.Check == nil {
		t.Fatalf("unexpected postgres check %+v", check)
	}
	if check := redisHealth(&redis.Store{}); check.Name != "redis" || check.Check == nil {
		t.Fatalf("unexpected redis check %+v", check)
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Poller:     newTestPoller(),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- hook.OnStop(context.Background())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("on stop failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected server to be closed, got %v", err)
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Poller:     newTestPoller(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}
