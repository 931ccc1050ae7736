package ports

import (
	"context"

	"picpay-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// Authorizer consults the external authorization service before a
// transfer proceeds. The returned bool is the authorizer's decision; any
// transport failure, timeout or non-success response is returned as an
// error and is never an approval.
type Authorizer interface {
	Authorize(ctx context.Context) (bool, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// --- Service Ports (Business Logic) ---

// WalletService defines the wallet creation and lookup boundary.
type WalletService interface {
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id int64) (*domain.Wallet, error)
}

// CreateWalletRequest holds validated input for wallet creation.
type CreateWalletRequest struct {
	FullName   string
	CpfCnpj    string // raw, may be masked
	Email      string
	Password   string
	WalletType domain.WalletType
}

// TransferService is the transfer execution engine.
type TransferService interface {
	Execute(ctx context.Context, req TransferRequest) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, id uuid.UUID) (*domain.Transfer, error)
	ListWalletTransfers(ctx context.Context, walletID int64, limit int) ([]domain.Transfer, error)
}

// TransferRequest holds validated input for a transfer attempt.
type TransferRequest struct {
	PayerID int64
	PayeeID int64
	Amount  int64 // cents
}
