package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"picpay-wallet/internal/core/domain"
	"picpay-wallet/internal/core/ports"
	"picpay-wallet/pkg/apperror"
	"picpay-wallet/pkg/document"

	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	cache      ports.WalletCache
	hashSvc    ports.HashService
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	cache ports.WalletCache,
	hashSvc ports.HashService,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		cache:      cache,
		hashSvc:    hashSvc,
		log:        log,
	}
}

// CreateWallet registers a new wallet with a zero balance. The document is
// validated before any I/O, then normalized to bare digits so one person
// cannot register twice under masked and unmasked forms of the same number.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, req ports.CreateWalletRequest) (*domain.Wallet, error) {
	if !req.WalletType.Valid() {
		return nil, apperror.Validation("wallet_type must be 1 (user) or 2 (merchant)")
	}
	if !document.IsValid(req.CpfCnpj) {
		return nil, apperror.ErrInvalidDocument()
	}
	doc := document.Normalize(req.CpfCnpj)

	existing, err := s.walletRepo.GetByCpfCnpjOrEmail(ctx, doc, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check duplicate wallet: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrWalletExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		FullName:     req.FullName,
		CpfCnpj:      doc,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Type:         req.WalletType,
		Balance:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		// The pre-check above races with concurrent registrations; the
		// unique constraint is the real guard.
		if errors.Is(err, ports.ErrDuplicateWallet) {
			return nil, apperror.ErrWalletExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	if err := s.cache.Set(ctx, wallet); err != nil {
		s.log.Warn().Err(err).Int64("wallet_id", wallet.ID).Msg("failed to cache new wallet")
	}

	s.log.Info().
		Int64("wallet_id", wallet.ID).
		Str("wallet_type", wallet.Type.Description()).
		Msg("wallet created")

	return wallet, nil
}

// GetWallet returns a wallet by ID, reading through the cache.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, id int64) (*domain.Wallet, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("wallet_id", id).Msg("wallet cache read failed, falling through to DB")
	}
	if cached != nil {
		return cached, nil
	}

	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if err := s.cache.Set(ctx, wallet); err != nil {
		s.log.Warn().Err(err).Int64("wallet_id", id).Msg("failed to cache wallet")
	}

	return wallet, nil
}
