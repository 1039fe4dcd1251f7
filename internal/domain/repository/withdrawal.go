package repository

import (
	"context"

	"github.com/punterhub/wallet/internal/domain/model"
)

// WithdrawalDraftRepository stores the per-user withdrawal form. Writes are
// conditional on the draft's Version: a write against a row that changed
// since it was read fails with ErrDraftChanged.
type WithdrawalDraftRepository interface {
	Get(ctx context.Context, userID string) (*model.WithdrawalDraft, error)
	// Save creates the draft when its Version is zero and otherwise updates
	// it in place. The draft's Version is advanced on success.
	Save(ctx context.Context, draft *model.WithdrawalDraft) error
	Delete(ctx context.Context, userID string, version int64) error
	// MarkSubmitting claims draft for submission. It fails with
	// ErrAlreadyProcessed when the draft is already submitting or settled,
	// and with ErrDraftChanged when the stored draft is no longer the one
	// passed in or an account verification is in flight.
	MarkSubmitting(ctx context.Context, draft *model.WithdrawalDraft) error
}
