package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/punterhub/wallet/internal/adapter/backend"
	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
)

// UserUseCase serves the cached user snapshot. The cache is only ever
// replaced with values returned by the backend.
type UserUseCase struct {
	backend   backend.Client
	snapshots repository.SnapshotRepository
	logger    *slog.Logger
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(client backend.Client, snapshots repository.SnapshotRepository, logger *slog.Logger) *UserUseCase {
	return &UserUseCase{backend: client, snapshots: snapshots, logger: logger}
}

// Current returns the cached snapshot, fetching it when absent.
func (u *UserUseCase) Current(ctx context.Context, sess *model.Session) (*model.User, error) {
	user, err := u.snapshots.Get(ctx, sess.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Warn("snapshot cache read failed", slog.String("user_id", sess.UserID), slog.String("error", err.Error()))
	}
	return u.Refresh(ctx, sess)
}

// Refresh fetches the authoritative snapshot and replaces the cached one.
func (u *UserUseCase) Refresh(ctx context.Context, sess *model.Session) (*model.User, error) {
	user, err := u.backend.GetUser(ctx, sess.BackendToken)
	if err != nil {
		return nil, err
	}
	if user.ID != sess.UserID {
		return nil, domainErrors.ErrUnauthenticated
	}
	if err := u.snapshots.Put(ctx, user); err != nil {
		u.logger.Warn("snapshot cache write failed", slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}
	return user, nil
}
