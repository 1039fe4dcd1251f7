package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/punterhub/wallet/internal/adapter/backend"
	"github.com/punterhub/wallet/internal/adapter/checkout"
	"github.com/punterhub/wallet/internal/config"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
	pkgAuth "github.com/punterhub/wallet/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	model.DefaultCatalog,
	NewUserUseCase,
	NewMarketUseCase,
	newSessionUseCase,
	newDepositUseCase,
	newWithdrawalUseCase,
)

type sessionParams struct {
	fx.In

	Config    *config.Config
	Backend   backend.Client
	Sessions  repository.SessionRepository
	Snapshots repository.SnapshotRepository
	Strategy  pkgAuth.Strategy
}

func newSessionUseCase(p sessionParams) *SessionUseCase {
	return NewSessionUseCase(p.Backend, p.Sessions, p.Snapshots, p.Strategy, p.Config.SessionTTL)
}

type depositParams struct {
	fx.In

	Config   *config.Config
	Catalog  model.Catalog
	Deposits repository.DepositRepository
	Gateway  checkout.Gateway
	Backend  backend.Client
	Logger   *slog.Logger
}

func newDepositUseCase(p depositParams) *DepositUseCase {
	return NewDepositUseCase(p.Catalog, p.Deposits, p.Gateway, p.Backend, DepositOptions{
		MinCustomCoins: p.Config.MinCustomDeposit,
		CloseDelay:     p.Config.CloseDelay,
	}, p.Logger)
}

type withdrawalParams struct {
	fx.In

	Config    *config.Config
	Drafts    repository.WithdrawalDraftRepository
	Snapshots repository.SnapshotRepository
	Backend   backend.Client
	Gateway   checkout.Gateway
	Logger    *slog.Logger
}

func newWithdrawalUseCase(p withdrawalParams) *WithdrawalUseCase {
	return NewWithdrawalUseCase(p.Drafts, p.Snapshots, p.Backend, p.Gateway, WithdrawalOptions{
		MinCoins:   p.Config.MinWithdrawal,
		CloseDelay: p.Config.CloseDelay,
	}, p.Logger)
}
