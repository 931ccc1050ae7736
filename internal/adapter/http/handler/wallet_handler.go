package handler

import (
	"strconv"

	"picpay-wallet/internal/adapter/http/dto"
	"picpay-wallet/internal/core/domain"
	"picpay-wallet/internal/core/ports"
	"picpay-wallet/pkg/apperror"
	"picpay-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet-related endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// CreateWallet handles POST /api/v1/wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), ports.CreateWalletRequest{
		FullName:   req.FullName,
		CpfCnpj:    req.CpfCnpj,
		Email:      req.Email,
		Password:   req.Password,
		WalletType: domain.WalletType(req.WalletType),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// GetWallet handles GET /api/v1/wallets/:id.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	id, err := parseWalletID(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet id must be a positive integer"))
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

func parseWalletID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

// toWalletResponse converts domain.Wallet to DTO.
func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:         w.ID,
		FullName:   w.FullName,
		CpfCnpj:    w.CpfCnpj,
		Email:      w.Email,
		WalletType: w.Type.Description(),
		Balance:    w.Balance,
		CreatedAt:  w.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
