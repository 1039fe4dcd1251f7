package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/punterhub/wallet/internal/adapter/backend"
	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
)

// MarketUseCase serves marketplace reads and mutations for both roles.
// Publishing tips and pricing is reserved for punter sessions.
type MarketUseCase struct {
	backend backend.MarketClient
}

// NewMarketUseCase constructs MarketUseCase.
func NewMarketUseCase(client backend.Client) *MarketUseCase {
	return &MarketUseCase{backend: client}
}

func (u *MarketUseCase) Punters(ctx context.Context, sess *model.Session) ([]model.Punter, error) {
	return u.backend.Punters(ctx, sess.BackendToken)
}

func (u *MarketUseCase) Daily(ctx context.Context, sess *model.Session) ([]model.Tip, error) {
	return u.backend.Daily(ctx, sess.BackendToken)
}

func (u *MarketUseCase) Feed(ctx context.Context, sess *model.Session) ([]model.Tip, error) {
	return u.backend.Feed(ctx, sess.BackendToken)
}

// BuyTip unlocks a tip. The backend debits the price; callers refresh the
// user snapshot afterwards.
func (u *MarketUseCase) BuyTip(ctx context.Context, sess *model.Session, tipID string) (*model.Tip, error) {
	if strings.TrimSpace(tipID) == "" {
		return nil, domainErrors.Validation("Tip is required")
	}
	return u.backend.BuyTip(ctx, sess.BackendToken, tipID)
}

func (u *MarketUseCase) CreateTip(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error) {
	if err := requirePunter(sess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(tip.Title) == "" || strings.TrimSpace(tip.Content) == "" {
		return nil, domainErrors.Validation("Title and content are required")
	}
	if err := nonNegativePrice(tip.Price); err != nil {
		return nil, err
	}
	tip.Kind = model.TipKindBet
	return u.backend.CreateTip(ctx, sess.BackendToken, tip)
}

func (u *MarketUseCase) CreateSignal(ctx context.Context, sess *model.Session, tip model.Tip) (*model.Tip, error) {
	if err := requirePunter(sess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(tip.Title) == "" || strings.TrimSpace(tip.Pair) == "" {
		return nil, domainErrors.Validation("Title and pair are required")
	}
	if !tip.Entry.IsPositive() {
		return nil, domainErrors.Validation("Entry price must be positive")
	}
	if err := nonNegativePrice(tip.Price); err != nil {
		return nil, err
	}
	tip.Kind = model.TipKindSignal
	return u.backend.CreateSignal(ctx, sess.BackendToken, tip)
}

func (u *MarketUseCase) Comment(ctx context.Context, sess *model.Session, tipID, body string) (*model.Comment, error) {
	if strings.TrimSpace(tipID) == "" || strings.TrimSpace(body) == "" {
		return nil, domainErrors.Validation("Comment cannot be empty")
	}
	return u.backend.Comment(ctx, sess.BackendToken, tipID, body)
}

func (u *MarketUseCase) SendMessage(ctx context.Context, sess *model.Session, conversationID, body string) (*model.Message, error) {
	if strings.TrimSpace(conversationID) == "" || strings.TrimSpace(body) == "" {
		return nil, domainErrors.Validation("Message cannot be empty")
	}
	return u.backend.SendMessage(ctx, sess.BackendToken, conversationID, body)
}

// CreateMessage starts a conversation with recipientID.
func (u *MarketUseCase) CreateMessage(ctx context.Context, sess *model.Session, recipientID, body string) (*model.Conversation, error) {
	if strings.TrimSpace(recipientID) == "" || strings.TrimSpace(body) == "" {
		return nil, domainErrors.Validation("Message cannot be empty")
	}
	return u.backend.CreateMessage(ctx, sess.BackendToken, recipientID, body)
}

func (u *MarketUseCase) EditProfile(ctx context.Context, sess *model.Session, update model.ProfileUpdate) (*model.User, error) {
	if update == (model.ProfileUpdate{}) {
		return nil, domainErrors.Validation("Nothing to update")
	}
	return u.backend.EditProfile(ctx, sess.BackendToken, update)
}

func (u *MarketUseCase) UpdatePricing(ctx context.Context, sess *model.Session, pricing model.SubscriptionPricing) error {
	if err := requirePunter(sess); err != nil {
		return err
	}
	if pricing.Weekly.IsNegative() || pricing.Monthly.IsNegative() {
		return domainErrors.ValidationWrap(domainErrors.ErrInvalidAmount, "Prices cannot be negative")
	}
	return u.backend.UpdatePricing(ctx, sess.BackendToken, pricing)
}

func requirePunter(sess *model.Session) error {
	if sess.Role != model.RolePunter {
		return domainErrors.ErrForbiddenRole
	}
	return nil
}

func nonNegativePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domainErrors.ValidationWrap(domainErrors.ErrInvalidAmount, "Price cannot be negative")
	}
	return nil
}
