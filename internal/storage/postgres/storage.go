package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/punterhub/wallet/internal/domain/errors"
	"github.com/punterhub/wallet/internal/domain/model"
	"github.com/punterhub/wallet/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool the storage relies on.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type depositRepository struct {
	storage *Storage
}

type draftRepository struct {
	storage *Storage
}

var _ repository.Factory = (*Storage)(nil)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Deposits() repository.DepositRepository {
	return &depositRepository{storage: s}
}

func (s *Storage) WithdrawalDrafts() repository.WithdrawalDraftRepository {
	return &draftRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS deposits (
            reference TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            selection INTEGER NOT NULL,
            custom_amount TEXT NOT NULL DEFAULT '',
            total_coins BIGINT NOT NULL,
            gateway_amount BIGINT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS withdrawal_drafts (
            user_id TEXT PRIMARY KEY,
            amount BIGINT NOT NULL DEFAULT 0,
            bank_code TEXT NOT NULL DEFAULT '',
            bank_name TEXT NOT NULL DEFAULT '',
            account_number TEXT NOT NULL DEFAULT '',
            resolved_account_name TEXT NOT NULL DEFAULT '',
            resolved_bank_code TEXT NOT NULL DEFAULT '',
            resolved_account_number TEXT NOT NULL DEFAULT '',
            last_error TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL,
            version BIGINT NOT NULL DEFAULT 1,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_deposits_user ON deposits(user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- DepositRepository implementation ---

const depositColumns = `reference, user_id, email, selection, custom_amount, total_coins, gateway_amount, status, created_at, updated_at`

func scanDeposit(row pgx.Row) (*model.Deposit, error) {
	var d model.Deposit
	err := row.Scan(&d.Reference, &d.UserID, &d.Email, &d.Selection, &d.CustomAmount,
		&d.TotalCoins, &d.GatewayAmount, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *depositRepository) Create(ctx context.Context, d *model.Deposit) error {
	const query = `INSERT INTO deposits (reference, user_id, email, selection, custom_amount, total_coins, gateway_amount, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query, d.Reference, d.UserID, d.Email, d.Selection, d.CustomAmount,
		d.TotalCoins, d.GatewayAmount, d.Status).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *depositRepository) Get(ctx context.Context, reference string) (*model.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE reference=$1`
	d, err := scanDeposit(r.storage.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Transition relies on the conditional UPDATE being atomic, so two callers
// racing on the same reference see exactly one success.
func (r *depositRepository) Transition(ctx context.Context, reference string, from, to model.DepositStatus) (*model.Deposit, error) {
	query := `UPDATE deposits SET status=$3, updated_at=NOW()
              WHERE reference=$1 AND status=$2
              RETURNING ` + depositColumns
	d, err := scanDeposit(r.storage.pool.QueryRow(ctx, query, reference, from, to))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var status model.DepositStatus
	err = r.storage.pool.QueryRow(ctx, `SELECT status FROM deposits WHERE reference=$1`, reference).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return nil, domainErrors.ErrAlreadyProcessed
}

// --- WithdrawalDraftRepository implementation ---

func (r *draftRepository) Get(ctx context.Context, userID string) (*model.WithdrawalDraft, error) {
	const query = `SELECT user_id, amount, bank_code, bank_name, account_number,
                          resolved_account_name, resolved_bank_code, resolved_account_number,
                          last_error, state, version, updated_at
                   FROM withdrawal_drafts WHERE user_id=$1`
	var d model.WithdrawalDraft
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&d.UserID, &d.Amount, &d.BankCode, &d.BankName,
		&d.AccountNumber, &d.ResolvedAccountName, &d.ResolvedBankCode, &d.ResolvedAccountNumber,
		&d.LastError, &d.State, &d.Version, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Save writes d if the stored row is still at d.Version. A zero version
// creates the row. On success d.Version is advanced.
func (r *draftRepository) Save(ctx context.Context, d *model.WithdrawalDraft) error {
	const insertQuery = `INSERT INTO withdrawal_drafts (user_id, amount, bank_code, bank_name, account_number,
                       resolved_account_name, resolved_bank_code, resolved_account_number, last_error, state,
                       version, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, NOW())
                   ON CONFLICT (user_id) DO NOTHING`
	const updateQuery = `UPDATE withdrawal_drafts SET
                       amount = $2,
                       bank_code = $3,
                       bank_name = $4,
                       account_number = $5,
                       resolved_account_name = $6,
                       resolved_bank_code = $7,
                       resolved_account_number = $8,
                       last_error = $9,
                       state = $10,
                       version = version + 1,
                       updated_at = NOW()
                   WHERE user_id = $1 AND version = $11`

	args := []any{d.UserID, d.Amount, d.BankCode, d.BankName, d.AccountNumber,
		d.ResolvedAccountName, d.ResolvedBankCode, d.ResolvedAccountNumber, d.LastError, d.State}
	query := insertQuery
	if d.Version > 0 {
		query = updateQuery
		args = append(args, d.Version)
	}
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrDraftChanged
	}
	d.Version++
	return nil
}

func (r *draftRepository) Delete(ctx context.Context, userID string, version int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM withdrawal_drafts WHERE user_id=$1 AND version=$2`, userID, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrDraftChanged
	}
	return nil
}

func (r *draftRepository) MarkSubmitting(ctx context.Context, d *model.WithdrawalDraft) error {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT state, version FROM withdrawal_drafts WHERE user_id=$1 FOR UPDATE`
		var (
			state   model.WithdrawalState
			version int64
		)
		if err := tx.QueryRow(ctx, lockQuery, d.UserID).Scan(&state, &version); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		switch {
		case state == model.WithdrawalSubmitting || state == model.WithdrawalSucceeded:
			return domainErrors.ErrAlreadyProcessed
		case version != d.Version || state == model.WithdrawalVerifying:
			return domainErrors.ErrDraftChanged
		}

		const updateQuery = `UPDATE withdrawal_drafts SET state=$2, version=version+1, updated_at=NOW() WHERE user_id=$1`
		if _, err := tx.Exec(ctx, updateQuery, d.UserID, model.WithdrawalSubmitting); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.State = model.WithdrawalSubmitting
	d.Version++
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
