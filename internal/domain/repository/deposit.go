package repository

import (
	"context"

	"github.com/punterhub/wallet/internal/domain/model"
)

// DepositRepository persists checkout records.
type DepositRepository interface {
	Create(ctx context.Context, deposit *model.Deposit) error
	Get(ctx context.Context, reference string) (*model.Deposit, error)
	// Transition moves a deposit from one status to another atomically. It
	// returns ErrAlreadyProcessed when the stored status differs from from.
	Transition(ctx context.Context, reference string, from, to model.DepositStatus) (*model.Deposit, error)
}
