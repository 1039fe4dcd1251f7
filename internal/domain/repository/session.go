package repository

import (
	"context"
	"time"

	"github.com/punterhub/wallet/internal/domain/model"
)

// SessionRepository keeps wallet sessions across requests.
type SessionRepository interface {
	Save(ctx context.Context, session *model.Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// SnapshotRepository caches the last server-returned user snapshot.
type SnapshotRepository interface {
	Put(ctx context.Context, user *model.User) error
	Get(ctx context.Context, userID string) (*model.User, error)
}
