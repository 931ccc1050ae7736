package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is the immutable record of funds moved between two wallets.
// It is created exactly once, inside the same database transaction as the
// debit and credit, and only after the external authorizer approved the
// attempt. Failed attempts never produce a Transfer.
type Transfer struct {
	ID        uuid.UUID `json:"id"`
	PayerID   int64     `json:"payer_id"`
	PayeeID   int64     `json:"payee_id"`
	Amount    int64     `json:"amount"` // cents, always > 0
	CreatedAt time.Time `json:"created_at"`
}
