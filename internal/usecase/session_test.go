package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/test"
)

func newSessionFixture() (*SessionUseCase, *test.BackendStub, *test.SessionRepositoryStub, *test.SnapshotRepositoryStub) {
	client := &test.BackendStub{}
	sessions := test.NewSessionRepositoryStub()
	snapshots := test.NewSnapshotRepositoryStub()
	return NewSessionUseCase(client, sessions, snapshots, test.StrategyStub{}, time.Hour), client, sessions, snapshots
}

func TestSessionOpenAndLoad(t *testing.T) {
	uc, _, sessions, snapshots := newSessionFixture()
	ctx := context.Background()

	token, sess, user, err := uc.Open(ctx, " bt ", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sess.Role != model.RoleCustomer || sess.BackendToken != "bt" || sess.UserID != user.ID {
		t.Fatalf("unexpected session %+v", sess)
	}
	if sessions.LastTTL != time.Hour {
		t.Fatalf("expected ttl of one hour, got %s", sessions.LastTTL)
	}
	if _, err := snapshots.Get(ctx, user.ID); err != nil {
		t.Fatalf("expected snapshot to be cached: %v", err)
	}

	loaded, err := uc.Load(ctx, token)
	if err != nil || loaded.ID != sess.ID {
		t.Fatalf("unexpected load %+v %v", loaded, err)
	}
}

func TestSessionOpenRejects(t *testing.T) {
	uc, client, _, _ := newSessionFixture()
	ctx := context.Background()

	if _, _, _, err := uc.Open(ctx, "  ", model.RoleCustomer); !errors.Is(err, domainErrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, _, _, err := uc.Open(ctx, "bt", "admin"); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
	if client.Calls("GetUser") != 0 {
		t.Fatal("backend must not be called for invalid input")
	}

	client.GetUserFn = func(context.Context, string) (*model.User, error) {
		return nil, &domainErrors.BackendError{Status: 401}
	}
	if _, _, _, err := uc.Open(ctx, "bt", model.RolePunter); !errors.Is(err, domainErrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestSessionLoadFailures(t *testing.T) {
	uc, _, _, _ := newSessionFixture()
	ctx := context.Background()

	for _, token := range []string{"", "garbage", "token:missing"} {
		if _, err := uc.Load(ctx, token); !errors.Is(err, domainErrors.ErrUnauthenticated) {
			t.Fatalf("token %q: expected unauthenticated, got %v", token, err)
		}
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	uc, _, _, _ := newSessionFixture()
	ctx := context.Background()

	token, sess, _, err := uc.Open(ctx, "bt", model.RoleCustomer)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := uc.Close(ctx, sess); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := uc.Close(ctx, sess); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := uc.Load(ctx, token); !errors.Is(err, domainErrors.ErrUnauthenticated) {
		t.Fatalf("expected closed session to be gone, got %v", err)
	}
}

func TestSessionSwitchRole(t *testing.T) {
	uc, client, sessions, _ := newSessionFixture()
	ctx := context.Background()

	token, sess, _, err := uc.Open(ctx, "bt", model.RoleCustomer)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var sentRole model.Role
	client.ChangeRoleFn = func(_ context.Context, _ string, role model.Role) error {
		sentRole = role
		return nil
	}
	updated, err := uc.SwitchRole(ctx, sess, model.RolePunter)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if updated.Role != model.RolePunter || sentRole != model.RolePunter {
		t.Fatalf("unexpected role %s / %s", updated.Role, sentRole)
	}
	if sessions.LastTTL <= 0 || sessions.LastTTL > time.Hour {
		t.Fatalf("expected remaining ttl, got %s", sessions.LastTTL)
	}
	loaded, _ := uc.Load(ctx, token)
	if loaded.Role != model.RolePunter {
		t.Fatalf("expected stored role to change, got %s", loaded.Role)
	}

	client.ChangeRoleFn = func(context.Context, string, model.Role) error {
		return &domainErrors.BackendError{Status: 400, Message: "not allowed"}
	}
	if _, err := uc.SwitchRole(ctx, updated, model.RoleCustomer); err == nil {
		t.Fatal("expected backend failure")
	}
	loaded, _ = uc.Load(ctx, token)
	if loaded.Role != model.RolePunter {
		t.Fatal("role must not change when the backend refuses")
	}

	if _, err := uc.SwitchRole(ctx, updated, "admin"); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}
