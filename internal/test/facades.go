package test

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
)

// SessionFacadeStub provides controllable behaviour for session endpoints.
type SessionFacadeStub struct {
	OpenFn   func(context.Context, string, model.Role) (string, *model.Session, *model.User, error)
	LoadFn   func(context.Context, string) (*model.Session, error)
	CloseFn  func(context.Context, *model.Session) error
	SwitchFn func(context.Context, *model.Session, model.Role) (*model.Session, error)
	MeFn     func(context.Context, *model.Session) (*model.User, error)
}

// OpenSession delegates to OpenFn or opens session "s1" for user "u1".
func (s SessionFacadeStub) OpenSession(ctx context.Context, backendToken string, role model.Role) (string, *model.Session, *model.User, error) {
	if s.OpenFn != nil {
		return s.OpenFn(ctx, backendToken, role)
	}
	if role == "" {
		role = model.RoleCustomer
	}
	return "token:s1", &model.Session{ID: "s1", UserID: "u1", Role: role, BackendToken: backendToken}, DefaultUser(), nil
}

// LoadSession delegates to LoadFn or accepts "token:<id>".
func (s SessionFacadeStub) LoadSession(ctx context.Context, token string) (*model.Session, error) {
	if s.LoadFn != nil {
		return s.LoadFn(ctx, token)
	}
	id, ok := strings.CutPrefix(token, "token:")
	if !ok || id == "" {
		return nil, domainErrors.ErrUnauthenticated
	}
	return &model.Session{ID: id, UserID: "u1", Role: model.RoleCustomer}, nil
}

// CloseSession delegates to CloseFn.
func (s SessionFacadeStub) CloseSession(ctx context.Context, sess *model.Session) error {
	if s.CloseFn != nil {
		return s.CloseFn(ctx, sess)
	}
	return nil
}

// SwitchRole delegates to SwitchFn or returns the session with the new role.
func (s SessionFacadeStub) SwitchRole(ctx context.Context, sess *model.Session, role model.Role) (*model.Session, error) {
	if s.SwitchFn != nil {
		return s.SwitchFn(ctx, sess, role)
	}
	updated := *sess
	updated.Role = role
	return &updated, nil
}

// Me delegates to MeFn or returns DefaultUser.
func (s SessionFacadeStub) Me(ctx context.Context, sess *model.Session) (*model.User, error) {
	if s.MeFn != nil {
		return s.MeFn(ctx, sess)
	}
	return DefaultUser(), nil
}

// DefaultUser is the verified customer returned by stubs when nothing else
// is configured.
func DefaultUser() *model.User {
	return &model.User{
		ID:       "u1",
		Email:    "user@example.com",
		Balance:  decimal.NewFromInt(100),
		Verified: true,
		Role:     model.RoleCustomer,
	}
}

// WalletFacadeStub simulates deposit endpoints.
type WalletFacadeStub struct {
	Catalog    model.Catalog
	PreviewFn  func(int, string) model.PricingResult
	BanksFn    func(context.Context) ([]model.Bank, error)
	InitiateFn func(context.Context, *model.Session, int, string) (*model.Checkout, error)
	CompleteFn func(context.Context, *model.Session, string) (*model.DepositReceipt, *model.User, error)
	CancelFn   func(context.Context, *model.Session, string) error
}

// Packages returns Catalog.
func (s WalletFacadeStub) Packages() model.Catalog {
	return s.Catalog
}

// Preview delegates to PreviewFn or returns a zero result.
func (s WalletFacadeStub) Preview(selection int, customAmount string) model.PricingResult {
	if s.PreviewFn != nil {
		return s.PreviewFn(selection, customAmount)
	}
	return model.PricingResult{DisplayPrice: "0.00", TransactionPrice: "0.00", Currency: model.Currency}
}

// Banks delegates to BanksFn or returns a single bank.
func (s WalletFacadeStub) Banks(ctx context.Context) ([]model.Bank, error) {
	if s.BanksFn != nil {
		return s.BanksFn(ctx)
	}
	return []model.Bank{{Code: "058", Name: "GTBank"}}, nil
}

// InitiateDeposit delegates to InitiateFn or opens checkout "ref-1".
func (s WalletFacadeStub) InitiateDeposit(ctx context.Context, sess *model.Session, selection int, customAmount string) (*model.Checkout, error) {
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, sess, selection, customAmount)
	}
	return &model.Checkout{Reference: "ref-1", Email: "user@example.com", Amount: 100000}, nil
}

// CompleteDeposit delegates to CompleteFn or credits ten coins.
func (s WalletFacadeStub) CompleteDeposit(ctx context.Context, sess *model.Session, reference string) (*model.DepositReceipt, *model.User, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, sess, reference)
	}
	return &model.DepositReceipt{Reference: reference, Coins: 10}, DefaultUser(), nil
}

// CancelDeposit delegates to CancelFn.
func (s WalletFacadeStub) CancelDeposit(ctx context.Context, sess *model.Session, reference string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, sess, reference)
	}
	return nil
}

// WithdrawalFacadeStub simulates withdrawal form endpoints.
type WithdrawalFacadeStub struct {
	DraftFn   func(context.Context, *model.Session) (*model.WithdrawalDraft, error)
	EditFn    func(context.Context, *model.Session, model.WithdrawalEdit) (*model.WithdrawalDraft, error)
	ResolveFn func(context.Context, *model.Session) (*model.WithdrawalDraft, error)
	SubmitFn  func(context.Context, *model.Session) (*model.WithdrawalReceipt, error)
	DiscardFn func(context.Context, *model.Session) error
}

// WithdrawalDraft delegates to DraftFn or returns an empty draft.
func (s WithdrawalFacadeStub) WithdrawalDraft(ctx context.Context, sess *model.Session) (*model.WithdrawalDraft, error) {
	if s.DraftFn != nil {
		return s.DraftFn(ctx, sess)
	}
	return model.NewWithdrawalDraft(sess.UserID), nil
}

// EditWithdrawal delegates to EditFn or returns an empty draft.
func (s WithdrawalFacadeStub) EditWithdrawal(ctx context.Context, sess *model.Session, edit model.WithdrawalEdit) (*model.WithdrawalDraft, error) {
	if s.EditFn != nil {
		return s.EditFn(ctx, sess, edit)
	}
	return model.NewWithdrawalDraft(sess.UserID), nil
}

// ResolveAccount delegates to ResolveFn or returns a verified draft.
func (s WithdrawalFacadeStub) ResolveAccount(ctx context.Context, sess *model.Session) (*model.WithdrawalDraft, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, sess)
	}
	d := model.NewWithdrawalDraft(sess.UserID)
	d.SetAccount("058", "GTBank", "0123456789")
	d.Resolve("JANE DOE")
	return d, nil
}

// SubmitWithdrawal delegates to SubmitFn or returns a zero balance receipt.
func (s WithdrawalFacadeStub) SubmitWithdrawal(ctx context.Context, sess *model.Session) (*model.WithdrawalReceipt, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, sess)
	}
	return &model.WithdrawalReceipt{NewBalance: decimal.Zero}, nil
}

// DiscardWithdrawal delegates to DiscardFn.
func (s WithdrawalFacadeStub) DiscardWithdrawal(ctx context.Context, sess *model.Session) error {
	if s.DiscardFn != nil {
		return s.DiscardFn(ctx, sess)
	}
	return nil
}

// MarketFacadeStub simulates marketplace endpoints.
type MarketFacadeStub struct {
	PuntersFn       func(context.Context, *model.Session) ([]model.Punter, error)
	DailyFn         func(context.Context, *model.Session) ([]model.Tip, error)
	FeedFn          func(context.Context, *model.Session) ([]model.Tip, error)
	BuyTipFn        func(context.Context, *model.Session, string) (*model.Tip, error)
	CreateTipFn     func(context.Context, *model.Session, model.Tip) (*model.Tip, error)
	CreateSignalFn  func(context.Context, *model.Session, model.Tip) (*model.Tip, error)
	CommentFn       func(context.Context, *model.Session, string, string) (*model.Comment, error)
	SendMessageFn   func(context.Context, *model.Session, string, string) (*model.Message, error)
	CreateMessageFn func(context.Context, *model.Session, string, string) (*model.Conversation, error)
	EditProfileFn   func(context.Context, *model.Session, model.ProfileUpdate) (*model.User, error)
	PricingFn       func(context.Context, *model.Session, model.SubscriptionPricing) error
}

// Punters delegates to PuntersFn.
func (s MarketFacadeStub) Punters(ctx context.Context, sess *model.Session) ([]model.Punter, error) {
	if s.PuntersFn != nil {
		return s.PuntersFn(ctx, sess)
	}
	return []model.Punter{{ID: "p1", Username: "ace"}}, nil
}

// Daily delegates to DailyFn.
func (s MarketFacadeStub) Daily(ctx context.Context, sess *model.Session) ([]model.Tip, error) {
	if s.DailyFn != nil {
		return s.DailyFn(ctx, sess)
	}
	return []model.Tip{{ID: "t1", Kind: model.TipKindBet}}, nil
}

// Feed delegates to FeedFn.
func (s MarketFacadeStub) Feed(ctx context.Context, sess *model.Session) ([]model.Tip, error) {
	if s.FeedFn != nil {
		return s.FeedFn(ctx, sess)
	}
	return []model.Tip{{ID: "t2", Kind: model.TipKindSignal}}, nil
}

// BuyTip delegates to BuyTipFn.
func (s MarketFacadeStub) BuyTip(ctx context.Context, sess *model.Session, tipID string) (*model.Tip, error) {
	if s.BuyTipFn != nil {
		return s.BuyTipFn(ctx, sess, tipID)
	}
	return &model.Tip{ID: tipID}, nil
}

// CreateTip delegates to CreateTipFn or echoes the tip back.
func (s MarketFacadeStub) CreateTip(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error) {
	if s.CreateTipFn != nil {
		return s.CreateTipFn(ctx, sess, tip)
	}
	tip.ID = "t-new"
	return &tip, nil
}

// CreateSignal delegates to CreateSignalFn or echoes the signal back.
func (s MarketFacadeStub) CreateSignal(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error) {
	if s.CreateSignalFn != nil {
		return s.CreateSignalFn(ctx, sess, tip)
	}
	tip.ID = "s-new"
	return &tip, nil
}

// Comment delegates to CommentFn.
func (s MarketFacadeStub) Comment(ctx context.Context, sess *model.Session, tipID, body string) (*model.Comment, error) {
	if s.CommentFn != nil {
		return s.CommentFn(ctx, sess, tipID, body)
	}
	return &model.Comment{ID: "c1", TipID: tipID, UserID: sess.UserID, Body: body}, nil
}

// SendMessage delegates to SendMessageFn.
func (s MarketFacadeStub) SendMessage(ctx context.Context, sess *model.Session, conversationID, body string) (*model.Message, error) {
	if s.SendMessageFn != nil {
		return s.SendMessageFn(ctx, sess, conversationID, body)
	}
	return &model.Message{ID: "m1", ConversationID: conversationID, SenderID: sess.UserID, Body: body}, nil
}

// CreateMessage delegates to CreateMessageFn.
func (s MarketFacadeStub) CreateMessage(ctx context.Context, sess *model.Session, recipientID, body string) (*model.Conversation, error) {
	if s.CreateMessageFn != nil {
		return s.CreateMessageFn(ctx, sess, recipientID, body)
	}
	return &model.Conversation{ID: "cv1", Participants: []string{sess.UserID, recipientID}}, nil
}

// EditProfile delegates to EditProfileFn or returns DefaultUser.
func (s MarketFacadeStub) EditProfile(ctx context.Context, sess *model.Session, update model.ProfileUpdate) (*model.User, error) {
	if s.EditProfileFn != nil {
		return s.EditProfileFn(ctx, sess, update)
	}
	return DefaultUser(), nil
}

// UpdatePricing delegates to PricingFn.
func (s MarketFacadeStub) UpdatePricing(ctx context.Context, sess *model.Session, pricing model.SubscriptionPricing) error {
	if s.PricingFn != nil {
		return s.PricingFn(ctx, sess, pricing)
	}
	return nil
}

// LiveServerStub records live view requests instead of upgrading them.
type LiveServerStub struct {
	Err error

	mu       sync.Mutex
	sessions []string
	initial  []*model.User
}

// Serve records the call and answers 101 unless Err is set.
func (s *LiveServerStub) Serve(w http.ResponseWriter, r *http.Request, sess *model.Session, initial *model.User) error {
	s.mu.Lock()
	s.sessions = append(s.sessions, sess.ID)
	s.initial = append(s.initial, initial)
	s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

// Served returns the session IDs passed to Serve and the initial snapshots.
func (s *LiveServerStub) Served() ([]string, []*model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sessions...), append([]*model.User(nil), s.initial...)
}

// SubscribersStub mimics the live hub from the poller's point of view.
type SubscribersStub struct {
	mu        sync.Mutex
	Watched   []model.Session
	Published map[string][]decimal.Decimal
	Closed    []string
}

// Sessions returns Watched.
func (s *SubscribersStub) Sessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Session(nil), s.Watched...)
}

// Publish records the pushed balance.
func (s *SubscribersStub) Publish(sessionID string, user *model.User) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Published == nil {
		s.Published = make(map[string][]decimal.Decimal)
	}
	s.Published[sessionID] = append(s.Published[sessionID], user.Balance)
	return 1
}

// Close records the closed session and stops watching it.
func (s *SubscribersStub) Close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = append(s.Closed, sessionID)
	kept := s.Watched[:0]
	for _, sess := range s.Watched {
		if sess.ID != sessionID {
			kept = append(kept, sess)
		}
	}
	s.Watched = kept
}

// Pushes returns the balances published to sessionID.
func (s *SubscribersStub) Pushes(sessionID string) []decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]decimal.Decimal(nil), s.Published[sessionID]...)
}

// ClosedSessions returns the sessions passed to Close.
func (s *SubscribersStub) ClosedSessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Closed...)
}

// RefresherStub returns per-session balances set with SetBalance.
type RefresherStub struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	errs     map[string]error
	calls    int
}

// SetBalance sets the balance returned for sessionID.
func (s *RefresherStub) SetBalance(sessionID string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances == nil {
		s.balances = make(map[string]decimal.Decimal)
	}
	s.balances[sessionID] = decimal.NewFromInt(balance)
}

// SetError makes refreshes of sessionID fail with err. A nil err clears it.
func (s *RefresherStub) SetError(sessionID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs == nil {
		s.errs = make(map[string]error)
	}
	s.errs[sessionID] = err
}

// RefreshUser returns the configured balance for the session.
func (s *RefresherStub) RefreshUser(ctx context.Context, sess *model.Session) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := s.errs[sess.ID]; err != nil {
		return nil, err
	}
	return &model.User{ID: sess.UserID, Balance: s.balances[sess.ID]}, nil
}

// Calls returns the number of refreshes.
func (s *RefresherStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
