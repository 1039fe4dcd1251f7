package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
)

// DepositRepositoryStub keeps deposits in memory with the same conditional
// transition rules as the SQL store.
type DepositRepositoryStub struct {
	Err           error
	TransitionErr error

	mu       sync.Mutex
	deposits map[string]model.Deposit
	history  map[string][]model.DepositStatus
}

// NewDepositRepositoryStub constructs an empty stub repository.
func NewDepositRepositoryStub() *DepositRepositoryStub {
	return &DepositRepositoryStub{
		deposits: make(map[string]model.Deposit),
		history:  make(map[string][]model.DepositStatus),
	}
}

func (s *DepositRepositoryStub) Create(ctx context.Context, d *model.Deposit) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deposits[d.Reference]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.deposits[d.Reference] = *d
	s.history[d.Reference] = append(s.history[d.Reference], d.Status)
	return nil
}

func (s *DepositRepositoryStub) Get(ctx context.Context, reference string) (*model.Deposit, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deposits[reference]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &d, nil
}

func (s *DepositRepositoryStub) Transition(ctx context.Context, reference string, from, to model.DepositStatus) (*model.Deposit, error) {
	if s.TransitionErr != nil {
		return nil, s.TransitionErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deposits[reference]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if d.Status != from {
		return nil, domainErrors.ErrAlreadyProcessed
	}
	d.Status = to
	d.UpdatedAt = time.Now()
	s.deposits[reference] = d
	s.history[reference] = append(s.history[reference], to)
	return &d, nil
}

// Status returns the stored status of reference.
func (s *DepositRepositoryStub) Status(reference string) model.DepositStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deposits[reference].Status
}

// History lists every status reference has held, oldest first.
func (s *DepositRepositoryStub) History(reference string) []model.DepositStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.DepositStatus(nil), s.history[reference]...)
}

// References lists stored deposit references.
func (s *DepositRepositoryStub) References() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]string, 0, len(s.deposits))
	for ref := range s.deposits {
		refs = append(refs, ref)
	}
	return refs
}

// DraftRepositoryStub keeps withdrawal drafts in memory. Writes are checked
// against the stored version the same way the database repository checks them.
type DraftRepositoryStub struct {
	Err     error
	SaveErr error

	mu     sync.Mutex
	drafts map[string]model.WithdrawalDraft
	saves  int
}

// NewDraftRepositoryStub constructs an empty stub repository.
func NewDraftRepositoryStub() *DraftRepositoryStub {
	return &DraftRepositoryStub{drafts: make(map[string]model.WithdrawalDraft)}
}

func (s *DraftRepositoryStub) Get(ctx context.Context, userID string) (*model.WithdrawalDraft, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &d, nil
}

func (s *DraftRepositoryStub) Save(ctx context.Context, d *model.WithdrawalDraft) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storedVersion(d.UserID) != d.Version {
		return domainErrors.ErrDraftChanged
	}
	d.Version++
	s.drafts[d.UserID] = *d
	s.saves++
	return nil
}

func (s *DraftRepositoryStub) Delete(ctx context.Context, userID string, version int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[userID]; !ok || s.storedVersion(userID) != version {
		return domainErrors.ErrDraftChanged
	}
	delete(s.drafts, userID)
	return nil
}

func (s *DraftRepositoryStub) MarkSubmitting(ctx context.Context, d *model.WithdrawalDraft) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.drafts[d.UserID]
	switch {
	case !ok:
		return domainErrors.ErrNotFound
	case stored.State == model.WithdrawalSubmitting || stored.State == model.WithdrawalSucceeded:
		return domainErrors.ErrAlreadyProcessed
	case stored.Version != d.Version || stored.State == model.WithdrawalVerifying:
		return domainErrors.ErrDraftChanged
	}
	stored.State = model.WithdrawalSubmitting
	stored.Version++
	s.drafts[d.UserID] = stored
	d.State = stored.State
	d.Version = stored.Version
	return nil
}

// Put stores d directly as the next version, bypassing Save accounting.
// d.Version is updated to the stored version.
func (s *DraftRepositoryStub) Put(d *model.WithdrawalDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Version = s.storedVersion(d.UserID) + 1
	s.drafts[d.UserID] = *d
}

// Saves reports the number of successful Save calls.
func (s *DraftRepositoryStub) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *DraftRepositoryStub) storedVersion(userID string) int64 {
	return s.drafts[userID].Version
}

// SessionRepositoryStub keeps sessions in memory and records the TTL of the
// last save.
type SessionRepositoryStub struct {
	Err     error
	LastTTL time.Duration

	mu       sync.Mutex
	sessions map[string]model.Session
}

// NewSessionRepositoryStub constructs an empty stub repository.
func NewSessionRepositoryStub() *SessionRepositoryStub {
	return &SessionRepositoryStub{sessions: make(map[string]model.Session)}
}

func (s *SessionRepositoryStub) Save(ctx context.Context, sess *model.Session, ttl time.Duration) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	s.LastTTL = ttl
	return nil
}

func (s *SessionRepositoryStub) Load(ctx context.Context, id string) (*model.Session, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &sess, nil
}

func (s *SessionRepositoryStub) Delete(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// SnapshotRepositoryStub caches user snapshots in memory.
type SnapshotRepositoryStub struct {
	GetErr error
	PutErr error

	mu    sync.Mutex
	users map[string]model.User
	puts  int
}

// NewSnapshotRepositoryStub constructs an empty stub repository.
func NewSnapshotRepositoryStub() *SnapshotRepositoryStub {
	return &SnapshotRepositoryStub{users: make(map[string]model.User)}
}

func (s *SnapshotRepositoryStub) Put(ctx context.Context, user *model.User) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	s.puts++
	return nil
}

func (s *SnapshotRepositoryStub) Get(ctx context.Context, userID string) (*model.User, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &u, nil
}

// Puts reports the number of successful Put calls.
func (s *SnapshotRepositoryStub) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

var (
	_ repository.DepositRepository         = (*DepositRepositoryStub)(nil)
	_ repository.WithdrawalDraftRepository = (*DraftRepositoryStub)(nil)
	_ repository.SessionRepository         = (*SessionRepositoryStub)(nil)
	_ repository.SnapshotRepository        = (*SnapshotRepositoryStub)(nil)
)
