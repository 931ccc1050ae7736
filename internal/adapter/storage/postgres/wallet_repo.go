package postgres

import (
	"context"
	"errors"
	"fmt"

	"picpay-wallet/internal/core/domain"
	"picpay-wallet/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet and fills in its assigned surrogate id.
// A cpf/cnpj or email uniqueness violation maps to ports.ErrDuplicateWallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (full_name, cpf_cnpj, email, password_hash, wallet_type, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		w.FullName, w.CpfCnpj, w.Email, w.PasswordHash,
		int64(w.Type), w.Balance, w.CreatedAt, w.UpdatedAt,
	).Scan(&w.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ports.ErrDuplicateWallet
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by id (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	query := `SELECT id, full_name, cpf_cnpj, email, password_hash, wallet_type, balance, created_at, updated_at
		FROM wallets WHERE id = $1`

	return scanWallet(r.pool.QueryRow(ctx, query, id), "get wallet by id")
}

// GetByCpfCnpjOrEmail fetches a wallet matching either unique field.
func (r *WalletRepo) GetByCpfCnpjOrEmail(ctx context.Context, cpfCnpj, email string) (*domain.Wallet, error) {
	query := `SELECT id, full_name, cpf_cnpj, email, password_hash, wallet_type, balance, created_at, updated_at
		FROM wallets WHERE cpf_cnpj = $1 OR email = $2`

	return scanWallet(r.pool.QueryRow(ctx, query, cpfCnpj, email), "get wallet by cpf/cnpj or email")
}

// GetByIDForUpdate fetches a wallet by id with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Wallet, error) {
	query := `SELECT id, full_name, cpf_cnpj, email, password_hash, wallet_type, balance, created_at, updated_at
		FROM wallets WHERE id = $1 FOR UPDATE`

	return scanWallet(tx.QueryRow(ctx, query, id), "get wallet for update")
}

// UpdateBalance writes a wallet's balance within a transaction. The new
// balance was computed under the row lock, so it is never stale.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID int64, balance int64) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %d", walletID)
	}
	return nil
}

func scanWallet(row pgx.Row, op string) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	var walletType int64
	err := row.Scan(
		&w.ID, &w.FullName, &w.CpfCnpj, &w.Email, &w.PasswordHash,
		&walletType, &w.Balance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w.Type = domain.WalletType(walletType)
	return w, nil
}
