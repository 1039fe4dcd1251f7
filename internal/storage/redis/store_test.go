package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/fx/fxtest"

	"github.com/punterhub/wallet/internal/config"
	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	pkgAuth "github.com/punterhub/wallet/internal/pkg/auth"
)

// fakeClient is an in-memory stand-in for the Redis commands the store uses.
type fakeClient struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	err       error
	pingErr   error
	expireErr error
	closed    bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeClient) Get(ctx context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeClient) Incr(ctx context.Context, key string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var n int64
	if v, ok := f.values[key]; ok {
		for _, c := range v {
			n = n*10 + int64(c-'0')
		}
	}
	n++
	f.values[key] = decimal.NewFromInt(n).String()
	return goredis.NewIntResult(n, nil)
}

func (f *fakeClient) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *goredis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewBoolResult(false, f.err)
	}
	if _, ok := f.values[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.values[key] = fmt.Sprint(value)
	f.ttls[key] = expiration
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeClient) ExpireNX(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expireErr != nil {
		return goredis.NewBoolResult(false, f.expireErr)
	}
	if _, ok := f.ttls[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.ttls[key] = expiration
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeClient) Ping(ctx context.Context) *goredis.StatusCmd {
	if f.pingErr != nil {
		return goredis.NewStatusResult("", f.pingErr)
	}
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeClient) {
	t.Helper()
	client := newFakeClient()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return &Store{
		client:      client,
		sealer:      pkgAuth.NewSecretboxSealer("secret"),
		snapshotTTL: time.Hour,
		logger:      logger,
	}, client
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if _, err := New(Options{}, pkgAuth.NewSecretboxSealer("s"), logger); err == nil {
		t.Fatal("expected missing address to fail")
	}

	original := newClient
	t.Cleanup(func() { newClient = original })
	var got *goredis.Options
	newClient = func(opts *goredis.Options) commands {
		got = opts
		return newFakeClient()
	}

	store, err := New(Options{Addr: "cache:6379", Password: "pw", DB: 2}, pkgAuth.NewSecretboxSealer("s"), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Addr != "cache:6379" || got.Password != "pw" || got.DB != 2 {
		t.Fatalf("unexpected options %+v", got)
	}
	if store.snapshotTTL != time.Hour {
		t.Fatalf("expected default snapshot ttl, got %s", store.snapshotTTL)
	}
}

func TestSessionRoundTripSealsToken(t *testing.T) {
	store, client := newTestStore(t)
	repo := store.Sessions()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	sess := &model.Session{ID: "s1", BackendToken: "backend-bearer", Role: model.RolePunter, UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := repo.Save(ctx, sess, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw := client.values[sessionPrefix+"s1"]
	if raw == "" || strings.Contains(raw, "backend-bearer") {
		t.Fatalf("backend token must be sealed at rest: %s", raw)
	}
	if client.ttls[sessionPrefix+"s1"] != time.Hour {
		t.Fatalf("unexpected ttl %s", client.ttls[sessionPrefix+"s1"])
	}

	loaded, err := repo.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.BackendToken != "backend-bearer" || loaded.Role != model.RolePunter || !loaded.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatalf("unexpected session %+v", loaded)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.Load(ctx, "s1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionLoadRejectsForeignSeal(t *testing.T) {
	store, client := newTestStore(t)
	other := &Store{client: client, sealer: pkgAuth.NewSecretboxSealer("other"), logger: store.logger}
	ctx := context.Background()

	if err := other.Sessions().Save(ctx, &model.Session{ID: "s1", BackendToken: "t"}, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Sessions().Load(ctx, "s1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	client.values[sessionPrefix+"s2"] = "{not json"
	if _, err := store.Sessions().Load(ctx, "s2"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionErrorsPropagate(t *testing.T) {
	store, client := newTestStore(t)
	client.err = errors.New("connection refused")
	ctx := context.Background()

	if err := store.Sessions().Save(ctx, &model.Session{ID: "s1"}, time.Minute); err == nil {
		t.Fatal("expected save error")
	}
	if _, err := store.Sessions().Load(ctx, "s1"); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}
	if err := store.Sessions().Delete(ctx, "s1"); err == nil {
		t.Fatal("expected delete error")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, client := newTestStore(t)
	repo := store.Snapshots()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "u1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	user := &model.User{ID: "u1", Email: "a@b.c", Balance: decimal.RequireFromString("12.50"), Verified: true, CountryCode: "NG", Role: model.RoleCustomer}
	if err := repo.Put(ctx, user); err != nil {
		t.Fatalf("put: %v", err)
	}
	if client.ttls[snapshotPrefix+"u1"] != time.Hour {
		t.Fatalf("unexpected ttl %s", client.ttls[snapshotPrefix+"u1"])
	}

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Balance.Equal(user.Balance) || !got.Verified || got.CountryCode != "NG" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestRateLimiterFixedWindow(t *testing.T) {
	store, client := newTestStore(t)
	limiter := store.Limiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "s1")
		if err != nil || !ok {
			t.Fatalf("hit %d: expected allowed, got %v %v", i, ok, err)
		}
	}
	if ok, _ := limiter.Allow(ctx, "s1"); ok {
		t.Fatal("expected third hit to be blocked")
	}
	if ok, _ := limiter.Allow(ctx, "s2"); !ok {
		t.Fatal("other keys must not share the window")
	}
	if client.ttls[ratePrefix+"60:s1"] != time.Minute {
		t.Fatalf("expected window expiry, got %v", client.ttls)
	}

	client.err = errors.New("down")
	ok, err := limiter.Allow(ctx, "s1")
	if !ok || err == nil {
		t.Fatalf("expected fail-open with error, got %v %v", ok, err)
	}
}

func TestRateLimiterWindowExpiresWhenExpireFails(t *testing.T) {
	store, client := newTestStore(t)
	client.expireErr = errors.New("expire timeout")
	limiter := store.Limiter(5, 30*time.Second)

	ok, err := limiter.Allow(context.Background(), "s1")
	if err != nil || !ok {
		t.Fatalf("expected first hit to be admitted, got %v %v", ok, err)
	}
	key := ratePrefix + "30:s1"
	if client.ttls[key] != 30*time.Second {
		t.Fatalf("expected the window key to carry its expiry, got %v", client.ttls)
	}
	if client.values[key] != "1" {
		t.Fatalf("expected one recorded hit, got %q", client.values[key])
	}
}

func TestRateLimiterRestoresExpiryOnLapsedWindow(t *testing.T) {
	store, client := newTestStore(t)
	limiter := store.Limiter(5, time.Minute)
	key := ratePrefix + "60:s1"
	// a key left behind without an expiry is given one on its first hit
	client.values[key] = "0"

	if ok, err := limiter.Allow(context.Background(), "s1"); err != nil || !ok {
		t.Fatalf("expected hit to be admitted, got %v %v", ok, err)
	}
	if client.ttls[key] != time.Minute {
		t.Fatalf("expected expiry to be restored, got %v", client.ttls)
	}
}

func TestHealthCheckAndClose(t *testing.T) {
	store, client := newTestStore(t)
	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.pingErr = errors.New("ping")
	if err := store.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
	if err := store.Close(); err != nil || !client.closed {
		t.Fatalf("expected close, got %v", err)
	}
	if err := (&Store{}).Close(); err != nil {
		t.Fatalf("closing an empty store: %v", err)
	}
}

func TestModuleProviders(t *testing.T) {
	original := newClient
	t.Cleanup(func() { newClient = original })
	fake := newFakeClient()
	newClient = func(*goredis.Options) commands { return fake }

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := &config.Config{RedisAddress: "localhost:6379", SessionTTL: 2 * time.Hour, ResolveRateLimit: 3, ResolveRateWindow: time.Minute}
	store, err := newStore(storeParams{Config: cfg, Sealer: pkgAuth.NewSecretboxSealer("s"), Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.snapshotTTL != 2*time.Hour {
		t.Fatalf("expected snapshot ttl from config, got %s", store.snapshotTTL)
	}
	limiter := newResolveLimiter(store, cfg)
	if limiter.limit != 3 || limiter.window != time.Minute {
		t.Fatalf("unexpected limiter %+v", limiter)
	}

	lc := fxtest.NewLifecycle(t)
	fake.pingErr = errors.New("not yet")
	registerLifecycle(lc, store, logger)
	lc.RequireStart()
	lc.RequireStop()
	if !fake.closed {
		t.Fatal("expected client to be closed on stop")
	}
}
