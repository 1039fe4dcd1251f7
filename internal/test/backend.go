package test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/punterhub/wallet/internal/adapter/backend"
	"github.com/punterhub/wallet/internal/adapter/checkout"
	"github.com/punterhub/wallet/internal/domain/model"
)

// BackendStub implements backend.Client through optional function fields and
// counts the calls it receives per operation.
type BackendStub struct {
	GetUserFn        func(context.Context, string) (*model.User, error)
	DepositFn        func(context.Context, string, string, int64) error
	ResolveAccountFn func(context.Context, string, string, string) (string, error)
	WithdrawFn       func(context.Context, string, model.WithdrawalRequest) (decimal.Decimal, error)

	PuntersFn       func(context.Context, string) ([]model.Punter, error)
	DailyFn         func(context.Context, string) ([]model.Tip, error)
	FeedFn          func(context.Context, string) ([]model.Tip, error)
	BuyTipFn        func(context.Context, string, string) (*model.Tip, error)
	CreateTipFn     func(context.Context, string, model.Tip) (*model.Tip, error)
	CreateSignalFn  func(context.Context, string, model.Tip) (*model.Tip, error)
	CommentFn       func(context.Context, string, string, string) (*model.Comment, error)
	SendMessageFn   func(context.Context, string, string, string) (*model.Message, error)
	CreateMessageFn func(context.Context, string, string, string) (*model.Conversation, error)
	EditProfileFn   func(context.Context, string, model.ProfileUpdate) (*model.User, error)
	PricingFn       func(context.Context, string, model.SubscriptionPricing) error
	ChangeRoleFn    func(context.Context, string, model.Role) error

	mu    sync.Mutex
	calls map[string]int
}

// Calls reports how many times the named operation was invoked.
func (s *BackendStub) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *BackendStub) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[op]++
}

func (s *BackendStub) GetUser(ctx context.Context, token string) (*model.User, error) {
	s.record("GetUser")
	if s.GetUserFn != nil {
		return s.GetUserFn(ctx, token)
	}
	return &model.User{ID: "u1", Email: "user@example.com", Balance: decimal.NewFromInt(100), Verified: true, Role: model.RoleCustomer}, nil
}

func (s *BackendStub) Deposit(ctx context.Context, token, userID string, coins int64) error {
	s.record("Deposit")
	if s.DepositFn != nil {
		return s.DepositFn(ctx, token, userID, coins)
	}
	return nil
}

func (s *BackendStub) ResolveAccount(ctx context.Context, token, bankCode, accountNumber string) (string, error) {
	s.record("ResolveAccount")
	if s.ResolveAccountFn != nil {
		return s.ResolveAccountFn(ctx, token, bankCode, accountNumber)
	}
	return "JANE DOE", nil
}

func (s *BackendStub) Withdraw(ctx context.Context, token string, req model.WithdrawalRequest) (decimal.Decimal, error) {
	s.record("Withdraw")
	if s.WithdrawFn != nil {
		return s.WithdrawFn(ctx, token, req)
	}
	return decimal.Zero, nil
}

func (s *BackendStub) Punters(ctx context.Context, token string) ([]model.Punter, error) {
	s.record("Punters")
	if s.PuntersFn != nil {
		return s.PuntersFn(ctx, token)
	}
	return []model.Punter{{ID: "p1", Username: "ace"}}, nil
}

func (s *BackendStub) Daily(ctx context.Context, token string) ([]model.Tip, error) {
	s.record("Daily")
	if s.DailyFn != nil {
		return s.DailyFn(ctx, token)
	}
	return []model.Tip{{ID: "t1", Kind: model.TipKindBet}}, nil
}

func (s *BackendStub) Feed(ctx context.Context, token string) ([]model.Tip, error) {
	s.record("Feed")
	if s.FeedFn != nil {
		return s.FeedFn(ctx, token)
	}
	return []model.Tip{{ID: "t1", Kind: model.TipKindBet}}, nil
}

func (s *BackendStub) BuyTip(ctx context.Context, token, tipID string) (*model.Tip, error) {
	s.record("BuyTip")
	if s.BuyTipFn != nil {
		return s.BuyTipFn(ctx, token, tipID)
	}
	return &model.Tip{ID: tipID}, nil
}

func (s *BackendStub) CreateTip(ctx context.Context, token string, tip model.Tip) (*model.Tip, error) {
	s.record("CreateTip")
	if s.CreateTipFn != nil {
		return s.CreateTipFn(ctx, token, tip)
	}
	tip.ID = "t-new"
	return &tip, nil
}

func (s *BackendStub) CreateSignal(ctx context.Context, token string, tip model.Tip) (*model.Tip, error) {
	s.record("CreateSignal")
	if s.CreateSignalFn != nil {
		return s.CreateSignalFn(ctx, token, tip)
	}
	tip.ID = "s-new"
	return &tip, nil
}

func (s *BackendStub) Comment(ctx context.Context, token, tipID, body string) (*model.Comment, error) {
	s.record("Comment")
	if s.CommentFn != nil {
		return s.CommentFn(ctx, token, tipID, body)
	}
	return &model.Comment{ID: "c1", TipID: tipID, Body: body}, nil
}

func (s *BackendStub) SendMessage(ctx context.Context, token, conversationID, body string) (*model.Message, error) {
	s.record("SendMessage")
	if s.SendMessageFn != nil {
		return s.SendMessageFn(ctx, token, conversationID, body)
	}
	return &model.Message{ID: "m1", ConversationID: conversationID, Body: body}, nil
}

func (s *BackendStub) CreateMessage(ctx context.Context, token, recipientID, body string) (*model.Conversation, error) {
	s.record("CreateMessage")
	if s.CreateMessageFn != nil {
		return s.CreateMessageFn(ctx, token, recipientID, body)
	}
	return &model.Conversation{ID: "conv1", Participants: []string{"u1", recipientID}}, nil
}

func (s *BackendStub) EditProfile(ctx context.Context, token string, update model.ProfileUpdate) (*model.User, error) {
	s.record("EditProfile")
	if s.EditProfileFn != nil {
		return s.EditProfileFn(ctx, token, update)
	}
	return &model.User{ID: "u1"}, nil
}

func (s *BackendStub) UpdatePricing(ctx context.Context, token string, pricing model.SubscriptionPricing) error {
	s.record("UpdatePricing")
	if s.PricingFn != nil {
		return s.PricingFn(ctx, token, pricing)
	}
	return nil
}

func (s *BackendStub) ChangeRole(ctx context.Context, token string, role model.Role) error {
	s.record("ChangeRole")
	if s.ChangeRoleFn != nil {
		return s.ChangeRoleFn(ctx, token, role)
	}
	return nil
}

// GatewayStub implements checkout.Gateway. Without overrides every checkout
// verifies as a success for the amount it was opened with.
type GatewayStub struct {
	InitializeFn func(context.Context, model.Charge) (*model.Checkout, error)
	VerifyFn     func(context.Context, string) (*model.CheckoutResult, error)
	BanksFn      func(context.Context) ([]model.Bank, error)

	mu       sync.Mutex
	charges  map[string]model.Charge
	verifies int
}

// Charge returns the charge opened for reference.
func (s *GatewayStub) Charge(reference string) (model.Charge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charges[reference]
	return c, ok
}

// VerifyCalls reports how many verifications were requested.
func (s *GatewayStub) VerifyCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifies
}

func (s *GatewayStub) Initialize(ctx context.Context, charge model.Charge) (*model.Checkout, error) {
	s.mu.Lock()
	if s.charges == nil {
		s.charges = make(map[string]model.Charge)
	}
	s.charges[charge.Reference] = charge
	s.mu.Unlock()

	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, charge)
	}
	return &model.Checkout{
		Reference:        charge.Reference,
		AuthorizationURL: "https://checkout.example/" + charge.Reference,
		AccessCode:       "access",
		PublicKey:        "pk_test",
		Email:            charge.Email,
		Amount:           charge.Amount,
	}, nil
}

func (s *GatewayStub) Verify(ctx context.Context, reference string) (*model.CheckoutResult, error) {
	s.mu.Lock()
	s.verifies++
	charge := s.charges[reference]
	s.mu.Unlock()

	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &model.CheckoutResult{Reference: reference, Outcome: model.OutcomeSuccess, Amount: charge.Amount}, nil
}

func (s *GatewayStub) Banks(ctx context.Context) ([]model.Bank, error) {
	if s.BanksFn != nil {
		return s.BanksFn(ctx)
	}
	return []model.Bank{{Code: "058", Name: "GTBank"}, {Code: "044", Name: "Access Bank"}}, nil
}

var _ backend.Client = (*BackendStub)(nil)
var _ checkout.Gateway = (*GatewayStub)(nil)
