package service

import (
	"context"
	"fmt"
	"time"

	"picpay-wallet/internal/core/domain"
	"picpay-wallet/internal/core/ports"
	"picpay-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultTransferListLimit = 50

// TransferServiceImpl implements ports.TransferService with pessimistic
// locking. Both wallets are locked FOR UPDATE inside a single database
// transaction, so the debit, the credit and the transfer record either all
// land or none do.
type TransferServiceImpl struct {
	walletRepo   ports.WalletRepository
	transferRepo ports.TransferRepository
	transactor   ports.DBTransactor
	authorizer   ports.Authorizer
	cache        ports.WalletCache
	log          zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	walletRepo ports.WalletRepository,
	transferRepo ports.TransferRepository,
	transactor ports.DBTransactor,
	authorizer ports.Authorizer,
	cache ports.WalletCache,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		walletRepo:   walletRepo,
		transferRepo: transferRepo,
		transactor:   transactor,
		authorizer:   authorizer,
		cache:        cache,
		log:          log,
	}
}

// Execute runs a transfer attempt end to end: eligibility checks, the
// external authorization call, then the locked balance movement.
func (s *TransferServiceImpl) Execute(ctx context.Context, req ports.TransferRequest) (*domain.Transfer, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidTransfer("transfer amount must be positive")
	}
	if req.PayerID == req.PayeeID {
		return nil, apperror.ErrInvalidTransfer("payer and payee must be different wallets")
	}

	// Unlocked reads settle eligibility before paying for the authorizer
	// round trip; balance is re-read under lock below.
	payer, err := s.walletRepo.GetByID(ctx, req.PayerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payer: %w", err))
	}
	if payer == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	payee, err := s.walletRepo.GetByID(ctx, req.PayeeID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payee: %w", err))
	}
	if payee == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if !payer.CanPay() {
		return nil, apperror.ErrTransferNotAllowed()
	}
	if payer.Balance < req.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	authorized, err := s.authorizer.Authorize(ctx)
	if err != nil {
		return nil, apperror.ErrAuthorizationUnavailable(err)
	}
	if !authorized {
		return nil, apperror.ErrTransferNotAuthorized()
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock both wallets in ascending ID order so two opposing transfers
	// cannot deadlock on each other.
	firstID, secondID := req.PayerID, req.PayeeID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, firstID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet %d: %w", firstID, err))
	}
	second, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, secondID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet %d: %w", secondID, err))
	}
	if first == nil || second == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	payer, payee = first, second
	if payer.ID != req.PayerID {
		payer, payee = second, first
	}

	// Business rule: sufficient funds, re-checked under lock
	if payer.Balance < req.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, payer.ID, payer.Balance-req.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit payer: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, payee.ID, payee.Balance+req.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit payee: %w", err))
	}

	transfer := &domain.Transfer{
		ID:        uuid.New(),
		PayerID:   payer.ID,
		PayeeID:   payee.ID,
		Amount:    req.Amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.transferRepo.Create(ctx, dbTx, transfer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transfer: %w", err))
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: drop stale cached balances (best-effort)
	if err := s.cache.Invalidate(ctx, payer.ID, payee.ID); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate wallet cache after transfer")
	}

	s.log.Info().
		Str("transfer_id", transfer.ID.String()).
		Int64("payer_id", payer.ID).
		Int64("payee_id", payee.ID).
		Int64("amount", req.Amount).
		Msg("transfer completed")

	return transfer, nil
}

// GetTransfer returns a completed transfer by ID.
func (s *TransferServiceImpl) GetTransfer(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transfer: %w", err))
	}
	if transfer == nil {
		return nil, apperror.ErrTransferNotFound()
	}
	return transfer, nil
}

// ListWalletTransfers returns the most recent transfers a wallet took part
// in, as payer or payee.
func (s *TransferServiceImpl) ListWalletTransfers(ctx context.Context, walletID int64, limit int) ([]domain.Transfer, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if limit <= 0 {
		limit = defaultTransferListLimit
	}
	transfers, err := s.transferRepo.ListByWallet(ctx, walletID, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transfers: %w", err))
	}
	return transfers, nil
}
