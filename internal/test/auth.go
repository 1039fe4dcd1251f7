package test

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	pkgAuth "github.com/punterhub/wallet/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides. By default a
// token is the session identifier prefixed with "token:".
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(sessionID string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(sessionID)
	}
	return "token:" + sessionID, nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	id, ok := strings.CutPrefix(token, "token:")
	if !ok || id == "" {
		return "", errors.New("invalid token")
	}
	return id, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// SealerStub reverses nothing; it only tags the plaintext so tests can see it
// went through the sealer.
type SealerStub struct {
	SealErr error
	OpenErr error
}

func (s SealerStub) Seal(plaintext []byte) (string, error) {
	if s.SealErr != nil {
		return "", s.SealErr
	}
	return "sealed:" + string(plaintext), nil
}

func (s SealerStub) Open(sealed string) ([]byte, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	plain, ok := strings.CutPrefix(sealed, "sealed:")
	if !ok {
		return nil, pkgAuth.ErrUnsealFailed
	}
	return []byte(plain), nil
}

// SessionLoaderStub resolves session tokens for middleware tests.
type SessionLoaderStub struct {
	Session *model.Session
	Err     error
	LoadFn  func(context.Context, string) (*model.Session, error)
}

// LoadSession delegates to override or returns the configured session.
func (s SessionLoaderStub) LoadSession(ctx context.Context, token string) (*model.Session, error) {
	if s.LoadFn != nil {
		return s.LoadFn(ctx, token)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Session == nil {
		return nil, domainErrors.ErrUnauthenticated
	}
	return s.Session, nil
}

var _ pkgAuth.Strategy = StrategyStub{}
var _ pkgAuth.Sealer = SealerStub{}
