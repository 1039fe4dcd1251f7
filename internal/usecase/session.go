package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/punterhub/wallet/internal/adapter/backend"
	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
	pkgAuth "github.com/punterhub/wallet/internal/pkg/auth"
)

// SessionUseCase binds a backend bearer token and role to a wallet session.
type SessionUseCase struct {
	backend   backend.Client
	sessions  repository.SessionRepository
	snapshots repository.SnapshotRepository
	tokens    pkgAuth.Strategy
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionUseCase constructs SessionUseCase.
func NewSessionUseCase(
	client backend.Client,
	sessions repository.SessionRepository,
	snapshots repository.SnapshotRepository,
	strategy pkgAuth.Strategy,
	ttl time.Duration,
) *SessionUseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionUseCase{
		backend:   client,
		sessions:  sessions,
		snapshots: snapshots,
		tokens:    strategy,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Open validates backendToken against the backend and starts a session.
// An empty role defaults to customer.
func (u *SessionUseCase) Open(ctx context.Context, backendToken string, role model.Role) (string, *model.Session, *model.User, error) {
	backendToken = strings.TrimSpace(backendToken)
	if backendToken == "" {
		return "", nil, nil, domainErrors.ErrUnauthenticated
	}
	if role == "" {
		role = model.RoleCustomer
	}
	if _, ok := model.ParseRole(string(role)); !ok {
		return "", nil, nil, domainErrors.Validation("Unknown role %q", role)
	}

	user, err := u.backend.GetUser(ctx, backendToken)
	if err != nil {
		return "", nil, nil, err
	}

	now := u.now()
	sess := &model.Session{
		ID:           uuid.NewString(),
		BackendToken: backendToken,
		Role:         role,
		UserID:       user.ID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(u.ttl),
	}
	if err := u.sessions.Save(ctx, sess, u.ttl); err != nil {
		return "", nil, nil, err
	}
	if err := u.snapshots.Put(ctx, user); err != nil {
		return "", nil, nil, err
	}

	token, err := u.tokens.IssueToken(sess.ID)
	if err != nil {
		return "", nil, nil, err
	}
	return token, sess, user, nil
}

// Load resolves a session token. Unknown, expired or tampered tokens yield
// ErrUnauthenticated.
func (u *SessionUseCase) Load(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, domainErrors.ErrUnauthenticated
	}
	id, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, domainErrors.ErrUnauthenticated
	}
	sess, err := u.sessions.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUnauthenticated
		}
		return nil, err
	}
	return sess, nil
}

// Close forgets the session. Closing an unknown session is not an error.
func (u *SessionUseCase) Close(ctx context.Context, sess *model.Session) error {
	if err := u.sessions.Delete(ctx, sess.ID); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}
	return nil
}

// SwitchRole changes the role on the backend first, then on the session.
func (u *SessionUseCase) SwitchRole(ctx context.Context, sess *model.Session, role model.Role) (*model.Session, error) {
	if _, ok := model.ParseRole(string(role)); !ok {
		return nil, domainErrors.Validation("Unknown role %q", role)
	}
	if err := u.backend.ChangeRole(ctx, sess.BackendToken, role); err != nil {
		return nil, err
	}

	updated := *sess
	updated.Role = role
	ttl := updated.ExpiresAt.Sub(u.now())
	if ttl <= 0 {
		return nil, domainErrors.ErrUnauthenticated
	}
	if err := u.sessions.Save(ctx, &updated, ttl); err != nil {
		return nil, err
	}
	return &updated, nil
}
