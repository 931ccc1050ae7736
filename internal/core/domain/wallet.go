package domain

import (
	"fmt"
	"time"
)

// WalletType is a closed tag identifying who owns a wallet. The numeric
// values are stable identities persisted with the wallet row; new members
// are never created at runtime.
type WalletType int64

const (
	WalletTypeUser     WalletType = 1
	WalletTypeMerchant WalletType = 2
)

var walletTypeDescriptions = map[WalletType]string{
	WalletTypeUser:     "user",
	WalletTypeMerchant: "merchant",
}

// Description returns the human-readable label for the wallet type.
func (t WalletType) Description() string {
	return walletTypeDescriptions[t]
}

// Valid reports whether t is one of the known wallet types.
func (t WalletType) Valid() bool {
	_, ok := walletTypeDescriptions[t]
	return ok
}

// ParseWalletType resolves a wallet-type selector ("user" or "merchant")
// to its tag.
func ParseWalletType(s string) (WalletType, error) {
	for t, desc := range walletTypeDescriptions {
		if desc == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown wallet type %q", s)
}

// Wallet represents an account holding a monetary balance, owned by a
// regular user or a merchant. Balance is in cents and never goes negative.
type Wallet struct {
	ID           int64      `json:"id"`
	FullName     string     `json:"full_name"`
	CpfCnpj      string     `json:"cpf_cnpj"` // digits only, unique
	Email        string     `json:"email"`    // unique
	PasswordHash string     `json:"-"`        // opaque credential, never expose
	Type         WalletType `json:"wallet_type"`
	Balance      int64      `json:"balance"` // cents
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CanPay reports whether this wallet is allowed to be the payer of a
// transfer. Merchant wallets only receive.
func (w *Wallet) CanPay() bool {
	return w.Type == WalletTypeUser
}
