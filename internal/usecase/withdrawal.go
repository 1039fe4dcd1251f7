package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/punterhub/wallet/internal/adapter/backend"
	"github.com/punterhub/wallet/internal/adapter/checkout"
	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
)

// WithdrawalOptions tunes withdrawal validation and receipts.
type WithdrawalOptions struct {
	MinCoins   int64
	CloseDelay time.Duration
}

// WithdrawalUseCase drives the withdrawal form: editing, account
// resolution and submission.
type WithdrawalUseCase struct {
	drafts    repository.WithdrawalDraftRepository
	snapshots repository.SnapshotRepository
	backend   backend.Client
	banks     checkout.Gateway
	opts      WithdrawalOptions
	logger    *slog.Logger
	now       func() time.Time
}

// NewWithdrawalUseCase constructs WithdrawalUseCase.
func NewWithdrawalUseCase(
	drafts repository.WithdrawalDraftRepository,
	snapshots repository.SnapshotRepository,
	client backend.Client,
	banks checkout.Gateway,
	opts WithdrawalOptions,
	logger *slog.Logger,
) *WithdrawalUseCase {
	if opts.MinCoins <= 0 {
		opts.MinCoins = 10
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = 3 * time.Second
	}
	return &WithdrawalUseCase{
		drafts:    drafts,
		snapshots: snapshots,
		backend:   client,
		banks:     banks,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Banks lists payout destinations for the bank picker.
func (u *WithdrawalUseCase) Banks(ctx context.Context) ([]model.Bank, error) {
	return u.banks.Banks(ctx)
}

// Draft returns the user's withdrawal form, starting a blank one if none exists.
func (u *WithdrawalUseCase) Draft(ctx context.Context, userID string) (*model.WithdrawalDraft, error) {
	draft, err := u.drafts.Get(ctx, userID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return model.NewWithdrawalDraft(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// draftWriteAttempts bounds how often a draft write is retried after losing
// a race with a concurrent writer.
const draftWriteAttempts = 3

var errSupersededResolution = errors.New("account resolution superseded")

// mutate reads the user's draft, applies change and saves the result. A save
// that lost to a concurrent write is retried against a fresh read. When
// change fails the draft it was given is returned with the error.
func (u *WithdrawalUseCase) mutate(ctx context.Context, userID string, change func(*model.WithdrawalDraft) error) (*model.WithdrawalDraft, error) {
	for attempt := 1; ; attempt++ {
		draft, err := u.Draft(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := change(draft); err != nil {
			return draft, err
		}
		draft.UpdatedAt = u.now()
		err = u.drafts.Save(ctx, draft)
		if err == nil {
			return draft, nil
		}
		if !errors.Is(err, domainErrors.ErrDraftChanged) || attempt == draftWriteAttempts {
			return nil, err
		}
	}
}

// Edit applies form changes. Changing the bank code or account number
// drops any resolved account name.
func (u *WithdrawalUseCase) Edit(ctx context.Context, userID string, edit model.WithdrawalEdit) (*model.WithdrawalDraft, error) {
	draft, err := u.mutate(ctx, userID, func(draft *model.WithdrawalDraft) error {
		switch draft.State {
		case model.WithdrawalSubmitting:
			return domainErrors.ErrAlreadyProcessed
		case model.WithdrawalSucceeded:
			version := draft.Version
			*draft = *model.NewWithdrawalDraft(userID)
			draft.Version = version
		}

		if edit.Amount != nil {
			amount := strings.TrimSpace(*edit.Amount)
			coins := ParseCoins(amount)
			if amount != "" && coins == 0 {
				return domainErrors.ValidationWrap(domainErrors.ErrInvalidAmount, domainErrors.MsgInvalidAmount)
			}
			draft.Amount = coins
		}
		bankCode, bankName, accountNumber := draft.BankCode, draft.BankName, draft.AccountNumber
		if edit.BankCode != nil {
			bankCode = strings.TrimSpace(*edit.BankCode)
		}
		if edit.BankName != nil {
			bankName = strings.TrimSpace(*edit.BankName)
		}
		if edit.AccountNumber != nil {
			accountNumber = strings.TrimSpace(*edit.AccountNumber)
		}
		if draft.SetAccount(bankCode, bankName, accountNumber) {
			draft.LastError = ""
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// Discard drops the user's withdrawal form.
func (u *WithdrawalUseCase) Discard(ctx context.Context, userID string) error {
	for attempt := 1; ; attempt++ {
		draft, err := u.drafts.Get(ctx, userID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if draft.State == model.WithdrawalSubmitting {
			return domainErrors.ErrAlreadyProcessed
		}
		err = u.drafts.Delete(ctx, userID, draft.Version)
		if !errors.Is(err, domainErrors.ErrDraftChanged) || attempt == draftWriteAttempts {
			return err
		}
	}
}

// Resolve looks up the account holder name for the draft's bank details.
// A result that arrives after the details were edited is discarded.
func (u *WithdrawalUseCase) Resolve(ctx context.Context, sess *model.Session) (*model.WithdrawalDraft, error) {
	draft, err := u.mutate(ctx, sess.UserID, func(draft *model.WithdrawalDraft) error {
		if draft.State == model.WithdrawalSubmitting || draft.State == model.WithdrawalSucceeded {
			return domainErrors.ErrAlreadyProcessed
		}
		if err := validateAccount(draft.BankCode, draft.AccountNumber); err != nil {
			return err
		}
		draft.State = model.WithdrawalVerifying
		draft.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	bankCode, accountNumber := draft.BankCode, draft.AccountNumber
	name, callErr := u.backend.ResolveAccount(ctx, sess.BackendToken, bankCode, accountNumber)
	name = strings.TrimSpace(name)
	if callErr == nil && name == "" {
		callErr = domainErrors.Validation(domainErrors.MsgVerifyFailed)
	}

	current, err := u.mutate(context.WithoutCancel(ctx), sess.UserID, func(current *model.WithdrawalDraft) error {
		if current.State != model.WithdrawalVerifying || current.BankCode != bankCode || current.AccountNumber != accountNumber {
			return errSupersededResolution
		}
		if callErr != nil {
			current.ClearResolution()
			current.State = model.WithdrawalEditing
			current.LastError = domainErrors.UserMessage(callErr, domainErrors.MsgVerifyFailed)
		} else {
			current.Resolve(name)
		}
		return nil
	})
	if errors.Is(err, errSupersededResolution) {
		u.logger.Debug("discarding superseded account resolution", slog.String("user_id", sess.UserID))
		return current, nil
	}
	if err != nil {
		return nil, err
	}
	return current, callErr
}

func validateAccount(bankCode, accountNumber string) error {
	if bankCode == "" {
		return domainErrors.Validation(domainErrors.MsgSelectBank)
	}
	if len(accountNumber) != model.AccountNumberLength {
		return domainErrors.Validation(domainErrors.MsgAccountDigits)
	}
	for i := 0; i < len(accountNumber); i++ {
		if accountNumber[i] < '0' || accountNumber[i] > '9' {
			return domainErrors.Validation(domainErrors.MsgAccountDigits)
		}
	}
	return nil
}

// Submit checks the withdrawal preconditions in order and, when all pass,
// posts the withdrawal. user must be a fresh snapshot; its balance is
// replaced with the backend's answer on success.
func (u *WithdrawalUseCase) Submit(ctx context.Context, sess *model.Session, user *model.User) (*model.WithdrawalReceipt, error) {
	draft, err := u.Draft(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if err := u.checkSubmission(user, draft); err != nil {
		return nil, err
	}

	// the claim only succeeds for the exact draft checked above
	if err := u.drafts.MarkSubmitting(ctx, draft); err != nil {
		if errors.Is(err, domainErrors.ErrDraftChanged) {
			return nil, domainErrors.ValidationWrap(domainErrors.ErrStaleResolution, domainErrors.MsgStaleResolution)
		}
		return nil, err
	}

	newBalance, err := u.backend.Withdraw(ctx, sess.BackendToken, model.WithdrawalRequest{
		UserID:         user.ID,
		CoinAmount:     draft.Amount,
		BankCode:       draft.BankCode,
		BankName:       draft.BankName,
		AccountNumber:  draft.AccountNumber,
		AccountName:    draft.ResolvedAccountName,
		Currency:       model.Currency,
		ConversionRate: model.CoinRate,
	})
	if err != nil {
		draft.State = model.WithdrawalEditing
		draft.LastError = domainErrors.UserMessage(err, domainErrors.MsgWithdrawalFailed)
		draft.UpdatedAt = u.now()
		if saveErr := u.drafts.Save(context.WithoutCancel(ctx), draft); saveErr != nil {
			u.logger.Error("withdrawal draft reset failed", slog.String("user_id", sess.UserID), slog.String("error", saveErr.Error()))
		}
		return nil, err
	}

	updated := *user
	updated.Balance = newBalance
	updated.FetchedAt = u.now()
	if err := u.snapshots.Put(context.WithoutCancel(ctx), &updated); err != nil {
		u.logger.Warn("snapshot cache write failed", slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}

	draft.State = model.WithdrawalSucceeded
	draft.LastError = ""
	draft.UpdatedAt = u.now()
	if err := u.drafts.Save(context.WithoutCancel(ctx), draft); err != nil {
		u.logger.Error("withdrawal draft settle failed", slog.String("user_id", sess.UserID), slog.String("error", err.Error()))
	}

	return &model.WithdrawalReceipt{NewBalance: newBalance, CloseAfter: u.opts.CloseDelay}, nil
}

func (u *WithdrawalUseCase) checkSubmission(user *model.User, draft *model.WithdrawalDraft) error {
	if !user.Verified {
		return domainErrors.Validation(domainErrors.MsgNotVerified)
	}
	if draft.Amount <= 0 || draft.BankCode == "" || draft.AccountNumber == "" || draft.ResolvedAccountName == "" {
		return domainErrors.Validation(domainErrors.MsgMissingFields)
	}
	if draft.State == model.WithdrawalVerifying || !draft.ResolutionMatches() {
		return domainErrors.ValidationWrap(domainErrors.ErrStaleResolution, domainErrors.MsgStaleResolution)
	}
	if draft.Amount < u.opts.MinCoins {
		return domainErrors.ValidationWrap(domainErrors.ErrInvalidAmount, fmt.Sprintf(domainErrors.MsgMinWithdrawal, u.opts.MinCoins))
	}
	if decimal.NewFromInt(draft.Amount).GreaterThan(user.Balance) {
		return domainErrors.ValidationWrap(domainErrors.ErrInsufficientBalance, domainErrors.MsgInsufficient)
	}
	return nil
}
