package ports

import (
	"context"
	"errors"

	"picpay-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrDuplicateWallet is returned by WalletRepository.Create when the
// cpf/cnpj or email uniqueness constraint is violated.
var ErrDuplicateWallet = errors.New("wallet with this cpf/cnpj or email already exists")

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking; balances are written only through UpdateBalance.
type WalletRepository interface {
	// Create inserts the wallet and fills in its assigned surrogate id.
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)
	// GetByCpfCnpjOrEmail backs the uniqueness check at wallet creation.
	GetByCpfCnpjOrEmail(ctx context.Context, cpfCnpj, email string) (*domain.Wallet, error)
	// GetByIDForUpdate locks the wallet row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID int64, balance int64) error
}

// TransferRepository defines persistence operations for transfer records.
type TransferRepository interface {
	// Create inserts the record within the same transaction as the
	// balance mutation it belongs to.
	Create(ctx context.Context, tx pgx.Tx, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error)
	// ListByWallet returns transfers where the wallet is payer or payee,
	// newest first.
	ListByWallet(ctx context.Context, walletID int64, limit int) ([]domain.Transfer, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WalletCache is a best-effort read cache for wallet lookups. A cache
// failure must never fail the request it serves.
type WalletCache interface {
	Get(ctx context.Context, id int64) (*domain.Wallet, error) // nil, nil on miss
	Set(ctx context.Context, wallet *domain.Wallet) error
	Invalidate(ctx context.Context, ids ...int64) error
}
