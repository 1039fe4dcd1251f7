package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/punterhub/wallet/internal/adapter/backend"
	"github.com/punterhub/wallet/internal/adapter/checkout"
	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
)

// DepositOptions tunes deposit validation and receipts.
type DepositOptions struct {
	MinCustomCoins int64
	CloseDelay     time.Duration
}

// DepositUseCase opens checkouts for coin purchases and credits them once
// the gateway confirms payment.
type DepositUseCase struct {
	catalog  model.Catalog
	deposits repository.DepositRepository
	gateway  checkout.Gateway
	backend  backend.Client
	opts     DepositOptions
	logger   *slog.Logger
	now      func() time.Time
}

// NewDepositUseCase constructs DepositUseCase.
func NewDepositUseCase(
	catalog model.Catalog,
	deposits repository.DepositRepository,
	gateway checkout.Gateway,
	client backend.Client,
	opts DepositOptions,
	logger *slog.Logger,
) *DepositUseCase {
	if opts.MinCustomCoins <= 0 {
		opts.MinCustomCoins = 5
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = 3 * time.Second
	}
	return &DepositUseCase{
		catalog:  catalog,
		deposits: deposits,
		gateway:  gateway,
		backend:  client,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Packages returns the coin catalog.
func (u *DepositUseCase) Packages() model.Catalog {
	return u.catalog
}

// Preview prices a selection without side effects.
func (u *DepositUseCase) Preview(selection int, customAmount string) model.PricingResult {
	return ComputePricing(u.catalog, selection, customAmount)
}

// Initiate validates the selection, records a pending deposit and opens a
// checkout for it.
func (u *DepositUseCase) Initiate(ctx context.Context, user *model.User, selection int, customAmount string) (*model.Checkout, error) {
	pricing := ComputePricing(u.catalog, selection, customAmount)
	if err := u.validate(selection, pricing); err != nil {
		return nil, err
	}

	now := u.now()
	deposit := &model.Deposit{
		Reference:     uuid.NewString(),
		UserID:        user.ID,
		Email:         user.Email,
		Selection:     selection,
		CustomAmount:  customAmount,
		TotalCoins:    pricing.TotalCoins,
		GatewayAmount: pricing.GatewayAmount,
		Status:        model.DepositStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if selection != model.CustomSelection {
		deposit.CustomAmount = ""
	}
	if err := u.deposits.Create(ctx, deposit); err != nil {
		return nil, err
	}

	checkoutHandle, err := u.gateway.Initialize(ctx, model.Charge{
		Reference: deposit.Reference,
		Email:     user.Email,
		Amount:    pricing.GatewayAmount,
		Currency:  pricing.Currency,
	})
	if err != nil {
		u.settle(ctx, deposit.Reference, model.DepositStatusPending, model.DepositStatusFailed)
		return nil, err
	}
	return checkoutHandle, nil
}

func (u *DepositUseCase) validate(selection int, pricing model.PricingResult) error {
	if selection == model.CustomSelection {
		if pricing.BaseCoins < u.opts.MinCustomCoins {
			return domainErrors.ValidationWrap(domainErrors.ErrInvalidAmount,
				fmt.Sprintf(domainErrors.MsgMinCustomDeposit, u.opts.MinCustomCoins))
		}
	} else if pricing.BaseCoins <= 0 {
		return domainErrors.Validation(domainErrors.MsgSelectPackage)
	}
	if pricing.GatewayAmount <= 0 {
		return domainErrors.ValidationWrap(domainErrors.ErrInvalidAmount, domainErrors.MsgInvalidPayment)
	}
	return nil
}

// Complete handles the checkout success callback. Only the first call for a
// reference proceeds; repeats fail with ErrAlreadyProcessed.
func (u *DepositUseCase) Complete(ctx context.Context, sess *model.Session, reference string) (*model.DepositReceipt, error) {
	if err := u.owned(ctx, sess, reference); err != nil {
		return nil, err
	}

	deposit, err := u.deposits.Transition(ctx, reference, model.DepositStatusPending, model.DepositStatusCrediting)
	if err != nil {
		return nil, err
	}

	result, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		u.settle(ctx, reference, model.DepositStatusCrediting, model.DepositStatusPending)
		return nil, err
	}

	pricing := ComputePricing(u.catalog, deposit.Selection, deposit.CustomAmount)
	switch {
	case result.Outcome == model.OutcomeCancelled:
		u.settle(ctx, reference, model.DepositStatusCrediting, model.DepositStatusCancelled)
		return nil, domainErrors.Validation(domainErrors.MsgPaymentNotComplete)
	case result.Outcome != model.OutcomeSuccess:
		u.settle(ctx, reference, model.DepositStatusCrediting, model.DepositStatusFailed)
		return nil, domainErrors.Validation(domainErrors.MsgPaymentNotComplete)
	case result.Amount != pricing.GatewayAmount:
		u.logger.Error("checkout amount mismatch",
			slog.String("reference", reference),
			slog.Int64("paid", result.Amount),
			slog.Int64("expected", pricing.GatewayAmount),
		)
		u.settle(ctx, reference, model.DepositStatusCrediting, model.DepositStatusFailed)
		return nil, domainErrors.ValidationWrap(domainErrors.ErrInvalidAmount, domainErrors.MsgInvalidPayment)
	}

	if err := u.backend.Deposit(ctx, sess.BackendToken, sess.UserID, pricing.TotalCoins); err != nil {
		u.settle(ctx, reference, model.DepositStatusCrediting, model.DepositStatusPending)
		return nil, err
	}
	u.settle(ctx, reference, model.DepositStatusCrediting, model.DepositStatusCredited)

	return &model.DepositReceipt{
		Reference:  reference,
		Coins:      pricing.TotalCoins,
		CloseAfter: u.opts.CloseDelay,
	}, nil
}

// Cancel handles the checkout cancel callback without any network call.
func (u *DepositUseCase) Cancel(ctx context.Context, sess *model.Session, reference string) error {
	if err := u.owned(ctx, sess, reference); err != nil {
		return err
	}
	_, err := u.deposits.Transition(ctx, reference, model.DepositStatusPending, model.DepositStatusCancelled)
	return err
}

func (u *DepositUseCase) owned(ctx context.Context, sess *model.Session, reference string) error {
	deposit, err := u.deposits.Get(ctx, reference)
	if err != nil {
		return err
	}
	if deposit.UserID != sess.UserID {
		return domainErrors.ErrNotFound
	}
	return nil
}

// settle records a status change after the outcome is already decided, so a
// storage failure is logged rather than returned.
func (u *DepositUseCase) settle(ctx context.Context, reference string, from, to model.DepositStatus) {
	if _, err := u.deposits.Transition(context.WithoutCancel(ctx), reference, from, to); err != nil && !errors.Is(err, domainErrors.ErrAlreadyProcessed) {
		u.logger.Error("deposit status update failed",
			slog.String("reference", reference),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
			slog.String("error", err.Error()),
		)
	}
}
