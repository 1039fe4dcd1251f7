package app

import (
	"context"
	"log/slog"

	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/metrics"
	"github.com/punterhub/wallet/internal/usecase"
)

// Views reaches the live balance views of a session.
type Views interface {
	Publish(sessionID string, user *model.User) int
	Close(sessionID string)
}

// WalletFacade combines the use cases behind the HTTP handlers and the
// balance poller. It keeps live views in step with balance changes made
// through the wallet itself.
type WalletFacade struct {
	sessions    *usecase.SessionUseCase
	users       *usecase.UserUseCase
	deposits    *usecase.DepositUseCase
	withdrawals *usecase.WithdrawalUseCase
	market      *usecase.MarketUseCase
	views       Views
	logger      *slog.Logger
}

func NewWalletFacade(
	sessions *usecase.SessionUseCase,
	users *usecase.UserUseCase,
	deposits *usecase.DepositUseCase,
	withdrawals *usecase.WithdrawalUseCase,
	market *usecase.MarketUseCase,
	views Views,
	logger *slog.Logger,
) *WalletFacade {
	return &WalletFacade{
		sessions:    sessions,
		users:       users,
		deposits:    deposits,
		withdrawals: withdrawals,
		market:      market,
		views:       views,
		logger:      logger,
	}
}

func (f *WalletFacade) OpenSession(ctx context.Context, backendToken string, role model.Role) (string, *model.Session, *model.User, error) {
	return f.sessions.Open(ctx, backendToken, role)
}

func (f *WalletFacade) LoadSession(ctx context.Context, token string) (*model.Session, error) {
	return f.sessions.Load(ctx, token)
}

// CloseSession forgets the session and ends its live views.
func (f *WalletFacade) CloseSession(ctx context.Context, sess *model.Session) error {
	if err := f.sessions.Close(ctx, sess); err != nil {
		return err
	}
	f.views.Close(sess.ID)
	return nil
}

func (f *WalletFacade) SwitchRole(ctx context.Context, sess *model.Session, role model.Role) (*model.Session, error) {
	updated, err := f.sessions.SwitchRole(ctx, sess, role)
	if err != nil {
		return nil, err
	}
	f.refresh(ctx, updated)
	return updated, nil
}

func (f *WalletFacade) Me(ctx context.Context, sess *model.Session) (*model.User, error) {
	return f.users.Current(ctx, sess)
}

// RefreshUser fetches the authoritative snapshot. The balance poller calls
// it for every watched session.
func (f *WalletFacade) RefreshUser(ctx context.Context, sess *model.Session) (*model.User, error) {
	return f.users.Refresh(ctx, sess)
}

func (f *WalletFacade) Packages() model.Catalog {
	return f.deposits.Packages()
}

func (f *WalletFacade) Preview(selection int, customAmount string) model.PricingResult {
	return f.deposits.Preview(selection, customAmount)
}

func (f *WalletFacade) Banks(ctx context.Context) ([]model.Bank, error) {
	return f.withdrawals.Banks(ctx)
}

func (f *WalletFacade) InitiateDeposit(ctx context.Context, sess *model.Session, selection int, customAmount string) (*model.Checkout, error) {
	user, err := f.users.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	checkout, err := f.deposits.Initiate(ctx, user, selection, customAmount)
	metrics.Deposits.WithLabelValues("initiate", metrics.Result(err)).Inc()
	return checkout, err
}

// CompleteDeposit credits the deposit and returns the refreshed snapshot.
// A failed refresh does not undo the credit; the user is then nil.
func (f *WalletFacade) CompleteDeposit(ctx context.Context, sess *model.Session, reference string) (*model.DepositReceipt, *model.User, error) {
	receipt, err := f.deposits.Complete(ctx, sess, reference)
	metrics.Deposits.WithLabelValues("complete", metrics.Result(err)).Inc()
	if err != nil {
		return nil, nil, err
	}
	return receipt, f.refresh(ctx, sess), nil
}

func (f *WalletFacade) CancelDeposit(ctx context.Context, sess *model.Session, reference string) error {
	err := f.deposits.Cancel(ctx, sess, reference)
	metrics.Deposits.WithLabelValues("cancel", metrics.Result(err)).Inc()
	return err
}

func (f *WalletFacade) WithdrawalDraft(ctx context.Context, sess *model.Session) (*model.WithdrawalDraft, error) {
	return f.withdrawals.Draft(ctx, sess.UserID)
}

func (f *WalletFacade) EditWithdrawal(ctx context.Context, sess *model.Session, edit model.WithdrawalEdit) (*model.WithdrawalDraft, error) {
	return f.withdrawals.Edit(ctx, sess.UserID, edit)
}

func (f *WalletFacade) ResolveAccount(ctx context.Context, sess *model.Session) (*model.WithdrawalDraft, error) {
	return f.withdrawals.Resolve(ctx, sess)
}

// SubmitWithdrawal checks the form against a freshly fetched balance before
// posting it.
func (f *WalletFacade) SubmitWithdrawal(ctx context.Context, sess *model.Session) (*model.WithdrawalReceipt, error) {
	user, err := f.users.Refresh(ctx, sess)
	if err != nil {
		return nil, err
	}
	receipt, err := f.withdrawals.Submit(ctx, sess, user)
	metrics.Withdrawals.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	updated := *user
	updated.Balance = receipt.NewBalance
	f.views.Publish(sess.ID, &updated)
	return receipt, nil
}

func (f *WalletFacade) DiscardWithdrawal(ctx context.Context, sess *model.Session) error {
	return f.withdrawals.Discard(ctx, sess.UserID)
}

func (f *WalletFacade) Punters(ctx context.Context, sess *model.Session) ([]model.Punter, error) {
	return f.market.Punters(ctx, sess)
}

func (f *WalletFacade) Daily(ctx context.Context, sess *model.Session) ([]model.Tip, error) {
	return f.market.Daily(ctx, sess)
}

func (f *WalletFacade) Feed(ctx context.Context, sess *model.Session) ([]model.Tip, error) {
	return f.market.Feed(ctx, sess)
}

// BuyTip unlocks the tip and refreshes the snapshot the purchase debited.
func (f *WalletFacade) BuyTip(ctx context.Context, sess *model.Session, tipID string) (*model.Tip, error) {
	tip, err := f.market.BuyTip(ctx, sess, tipID)
	if err != nil {
		return nil, err
	}
	f.refresh(ctx, sess)
	return tip, nil
}

func (f *WalletFacade) CreateTip(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error) {
	return f.market.CreateTip(ctx, sess, tip)
}

func (f *WalletFacade) CreateSignal(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error) {
	return f.market.CreateSignal(ctx, sess, tip)
}

func (f *WalletFacade) Comment(ctx context.Context, sess *model.Session, tipID, body string) (*model.Comment, error) {
	return f.market.Comment(ctx, sess, tipID, body)
}

func (f *WalletFacade) SendMessage(ctx context.Context, sess *model.Session, conversationID, body string) (*model.Message, error) {
	return f.market.SendMessage(ctx, sess, conversationID, body)
}

func (f *WalletFacade) CreateMessage(ctx context.Context, sess *model.Session, recipientID, body string) (*model.Conversation, error) {
	return f.market.CreateMessage(ctx, sess, recipientID, body)
}

func (f *WalletFacade) EditProfile(ctx context.Context, sess *model.Session, update model.ProfileUpdate) (*model.User, error) {
	return f.market.EditProfile(ctx, sess, update)
}

func (f *WalletFacade) UpdatePricing(ctx context.Context, sess *model.Session, pricing model.SubscriptionPricing) error {
	return f.market.UpdatePricing(ctx, sess, pricing)
}

// refresh replaces the cached snapshot after a balance-changing call and
// pushes it to live views. Failures only cost freshness.
func (f *WalletFacade) refresh(ctx context.Context, sess *model.Session) *model.User {
	user, err := f.users.Refresh(context.WithoutCancel(ctx), sess)
	if err != nil {
		f.logger.Warn("snapshot refresh failed", slog.String("user_id", sess.UserID), slog.String("error", err.Error()))
		return nil
	}
	f.views.Publish(sess.ID, user)
	return user
}
