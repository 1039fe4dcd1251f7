package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/metrics"
)

// Subscribers is the set of sessions with an open live view.
type Subscribers interface {
	Sessions() []model.Session
	Publish(sessionID string, user *model.User) int
	Close(sessionID string)
}

// Refresher fetches the authoritative user snapshot for a session.
type Refresher interface {
	RefreshUser(ctx context.Context, sess *model.Session) (*model.User, error)
}

// BalancePoller periodically refreshes the snapshot of every watched session
// and pushes balance changes to its live views.
type BalancePoller struct {
	refresher    Refresher
	subscribers  Subscribers
	pollInterval time.Duration
	workers      int
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex

	seenMu sync.Mutex
	seen   map[string]decimal.Decimal
}

// NewBalancePoller constructs the poller.
func NewBalancePoller(refresher Refresher, subscribers Subscribers, pollInterval time.Duration, workers int, logger *slog.Logger) *BalancePoller {
	if workers <= 0 {
		workers = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &BalancePoller{
		refresher:    refresher,
		subscribers:  subscribers,
		pollInterval: pollInterval,
		workers:      workers,
		logger:       logger,
		seen:         make(map[string]decimal.Decimal),
	}
}

// Start launches background polling. Calling Start twice is a no-op.
func (p *BalancePoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(runCtx)
}

// Stop cancels polling and waits for the running tick to finish.
func (p *BalancePoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *BalancePoller) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one polling round over the watched sessions and returns once
// every session was handled.
func (p *BalancePoller) Tick(ctx context.Context) {
	sessions := p.subscribers.Sessions()
	p.forgetUnwatched(sessions)
	if len(sessions) == 0 {
		return
	}

	jobs := make(chan model.Session)
	var wg sync.WaitGroup
	workers := min(p.workers, len(sessions))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sess := range jobs {
				p.handleSession(ctx, sess)
			}
		}()
	}

dispatch:
	for _, sess := range sessions {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- sess:
		}
	}
	close(jobs)
	wg.Wait()
}

func (p *BalancePoller) handleSession(ctx context.Context, sess model.Session) {
	user, err := p.refresher.RefreshUser(ctx, &sess)
	metrics.BalancePolls.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnauthenticated) {
			p.logger.Info("closing live view of expired session", slog.String("session_id", sess.ID))
			p.subscribers.Close(sess.ID)
			p.forget(sess.ID)
			return
		}
		if ctx.Err() == nil {
			p.logger.Warn("balance refresh failed", slog.String("session_id", sess.ID), slog.String("error", err.Error()))
		}
		return
	}

	if !p.changed(sess.ID, user.Balance) {
		return
	}
	p.subscribers.Publish(sess.ID, user)
}

func (p *BalancePoller) changed(sessionID string, balance decimal.Decimal) bool {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	prev, ok := p.seen[sessionID]
	p.seen[sessionID] = balance
	return !ok || !prev.Equal(balance)
}

func (p *BalancePoller) forget(sessionID string) {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	delete(p.seen, sessionID)
}

func (p *BalancePoller) forgetUnwatched(sessions []model.Session) {
	watched := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		watched[s.ID] = struct{}{}
	}
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	for id := range p.seen {
		if _, ok := watched[id]; !ok {
			delete(p.seen, id)
		}
	}
}
