package handlers

import (
	"context"
	"net/http"

	"github.com/punterhub/wallet/internal/domain/model"
)

// SessionFacade covers session lifecycle and the user snapshot.
type SessionFacade interface {
	OpenSession(ctx context.Context, backendToken string, role model.Role) (string, *model.Session, *model.User, error)
	LoadSession(ctx context.Context, token string) (*model.Session, error)
	CloseSession(ctx context.Context, sess *model.Session) error
	SwitchRole(ctx context.Context, sess *model.Session, role model.Role) (*model.Session, error)
	Me(ctx context.Context, sess *model.Session) (*model.User, error)
}

// WalletFacade covers coin purchases.
type WalletFacade interface {
	Packages() model.Catalog
	Preview(selection int, customAmount string) model.PricingResult
	Banks(ctx context.Context) ([]model.Bank, error)
	InitiateDeposit(ctx context.Context, sess *model.Session, selection int, customAmount string) (*model.Checkout, error)
	CompleteDeposit(ctx context.Context, sess *model.Session, reference string) (*model.DepositReceipt, *model.User, error)
	CancelDeposit(ctx context.Context, sess *model.Session, reference string) error
}

// WithdrawalFacade covers the withdrawal form.
type WithdrawalFacade interface {
	WithdrawalDraft(ctx context.Context, sess *model.Session) (*model.WithdrawalDraft, error)
	EditWithdrawal(ctx context.Context, sess *model.Session, edit model.WithdrawalEdit) (*model.WithdrawalDraft, error)
	ResolveAccount(ctx context.Context, sess *model.Session) (*model.WithdrawalDraft, error)
	SubmitWithdrawal(ctx context.Context, sess *model.Session) (*model.WithdrawalReceipt, error)
	DiscardWithdrawal(ctx context.Context, sess *model.Session) error
}

// MarketFacade covers marketplace reads and mutations.
type MarketFacade interface {
	Punters(ctx context.Context, sess *model.Session) ([]model.Punter, error)
	Daily(ctx context.Context, sess *model.Session) ([]model.Tip, error)
	Feed(ctx context.Context, sess *model.Session) ([]model.Tip, error)
	BuyTip(ctx context.Context, sess *model.Session, tipID string) (*model.Tip, error)
	CreateTip(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error)
	CreateSignal(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error)
	Comment(ctx context.Context, sess *model.Session, tipID, body string) (*model.Comment, error)
	SendMessage(ctx context.Context, sess *model.Session, conversationID, body string) (*model.Message, error)
	CreateMessage(ctx context.Context, sess *model.Session, recipientID, body string) (*model.Conversation, error)
	EditProfile(ctx context.Context, sess *model.Session, update model.ProfileUpdate) (*model.User, error)
	UpdatePricing(ctx context.Context, sess *model.Session, pricing model.SubscriptionPricing) error
}

// LiveServer upgrades a request into a live balance view.
type LiveServer interface {
	Serve(w http.ResponseWriter, r *http.Request, sess *model.Session, initial *model.User) error
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	SessionFacade
	WalletFacade
	WithdrawalFacade
	MarketFacade
}
