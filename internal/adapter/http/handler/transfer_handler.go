package handler

import (
	"picpay-wallet/internal/adapter/http/dto"
	"picpay-wallet/internal/core/domain"
	"picpay-wallet/internal/core/ports"
	"picpay-wallet/pkg/apperror"
	"picpay-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles transfer-related endpoints.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Execute handles POST /api/v1/transfer.
func (h *TransferHandler) Execute(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.transferSvc.Execute(c.Request.Context(), ports.TransferRequest{
		PayerID: req.Payer,
		PayeeID: req.Payee,
		Amount:  req.Value,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransferResponse(result))
}

// GetTransfer handles GET /api/v1/transfers/:id.
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("transfer id must be a UUID"))
		return
	}

	result, err := h.transferSvc.GetTransfer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransferResponse(result))
}

// ListWalletTransfers handles GET /api/v1/wallets/:id/transfers.
func (h *TransferHandler) ListWalletTransfers(c *gin.Context) {
	id, err := parseWalletID(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet id must be a positive integer"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := parseWalletID(raw)
		if err != nil {
			response.Error(c, apperror.Validation("limit must be a positive integer"))
			return
		}
		limit = int(parsed)
	}

	transfers, err := h.transferSvc.ListWalletTransfers(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransferResponse, 0, len(transfers))
	for i := range transfers {
		items = append(items, toTransferResponse(&transfers[i]))
	}
	response.OK(c, dto.TransferListResponse{Items: items})
}

// toTransferResponse converts domain.Transfer to DTO.
func toTransferResponse(tr *domain.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:        tr.ID.String(),
		Payer:     tr.PayerID,
		Payee:     tr.PayeeID,
		Value:     tr.Amount,
		CreatedAt: tr.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
