package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
	pkgAuth "github.com/punterhub/wallet/internal/pkg/auth"
)

const (
	sessionPrefix  = "wallet:session:"
	snapshotPrefix = "wallet:user:"
	ratePrefix     = "wallet:rl:"
)

// commands is the subset of *goredis.Client the store relies on.
type commands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *goredis.BoolCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

var newClient = func(opts *goredis.Options) commands {
	return goredis.NewClient(opts)
}

// Options configures the key-value store.
type Options struct {
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

// Store keeps sessions, user snapshots and rate-limit counters in Redis.
type Store struct {
	client      commands
	sealer      pkgAuth.Sealer
	snapshotTTL time.Duration
	logger      *slog.Logger
}

type sessionRepository struct {
	store *Store
}

type snapshotRepository struct {
	store *Store
}

var _ repository.KeyValueFactory = (*Store)(nil)

// New creates a store. The connection is established lazily by the client.
func New(opts Options, sealer pkgAuth.Sealer, logger *slog.Logger) (*Store, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address must be provided")
	}
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = time.Hour
	}
	client := newClient(&goredis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	return &Store{client: client, sealer: sealer, snapshotTTL: opts.SnapshotTTL, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// HealthCheck verifies Redis connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *Store) Sessions() repository.SessionRepository {
	return &sessionRepository{store: s}
}

func (s *Store) Snapshots() repository.SnapshotRepository {
	return &snapshotRepository{store: s}
}

// --- SessionRepository implementation ---

type sessionRecord struct {
	ID          string     `json:"id"`
	SealedToken string     `json:"token"`
	Role        model.Role `json:"role"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

func (r *sessionRepository) Save(ctx context.Context, sess *model.Session, ttl time.Duration) error {
	sealed, err := r.store.sealer.Seal([]byte(sess.BackendToken))
	if err != nil {
		return fmt.Errorf("seal backend token: %w", err)
	}
	data, err := json.Marshal(sessionRecord{
		ID:          sess.ID,
		SealedToken: sealed,
		Role:        sess.Role,
		UserID:      sess.UserID,
		CreatedAt:   sess.CreatedAt,
		ExpiresAt:   sess.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return r.store.client.Set(ctx, sessionPrefix+sess.ID, data, ttl).Err()
}

func (r *sessionRepository) Load(ctx context.Context, id string) (*model.Session, error) {
	raw, err := r.store.client.Get(ctx, sessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.store.logger.Warn("dropping unreadable session", slog.String("session_id", id), slog.String("error", err.Error()))
		return nil, domainErrors.ErrNotFound
	}
	token, err := r.store.sealer.Open(rec.SealedToken)
	if err != nil {
		r.store.logger.Warn("session token cannot be unsealed", slog.String("session_id", id))
		return nil, domainErrors.ErrNotFound
	}
	return &model.Session{
		ID:           rec.ID,
		BackendToken: string(token),
		Role:         rec.Role,
		UserID:       rec.UserID,
		CreatedAt:    rec.CreatedAt,
		ExpiresAt:    rec.ExpiresAt,
	}, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.client.Del(ctx, sessionPrefix+id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- SnapshotRepository implementation ---

type snapshotRecord struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Balance     decimal.Decimal `json:"balance"`
	Verified    bool            `json:"verified"`
	CountryCode string          `json:"country_code"`
	Role        model.Role      `json:"role"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

func (r *snapshotRepository) Put(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(snapshotRecord{
		ID:          user.ID,
		Email:       user.Email,
		Balance:     user.Balance,
		Verified:    user.Verified,
		CountryCode: user.CountryCode,
		Role:        user.Role,
		FetchedAt:   user.FetchedAt,
	})
	if err != nil {
		return err
	}
	return r.store.client.Set(ctx, snapshotPrefix+user.ID, data, r.store.snapshotTTL).Err()
}

func (r *snapshotRepository) Get(ctx context.Context, userID string) (*model.User, error) {
	raw, err := r.store.client.Get(ctx, snapshotPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	var rec snapshotRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, domainErrors.ErrNotFound
	}
	return &model.User{
		ID:          rec.ID,
		Email:       rec.Email,
		Balance:     rec.Balance,
		Verified:    rec.Verified,
		CountryCode: rec.CountryCode,
		Role:        rec.Role,
		FetchedAt:   rec.FetchedAt,
	}, nil
}
