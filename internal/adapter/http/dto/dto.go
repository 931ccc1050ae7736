package dto

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	FullName   string `json:"full_name" binding:"required,min=1,max=100"`
	CpfCnpj    string `json:"cpf_cnpj" binding:"required,cpf_cnpj"`
	Email      string `json:"email" binding:"required,email,max=254"`
	Password   string `json:"password" binding:"required,min=8,max=128"`
	WalletType int64  `json:"wallet_type" binding:"required,oneof=1 2"`
}

// WalletResponse is the response body for wallet creation and lookup.
// The password hash never leaves the service.
type WalletResponse struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	CpfCnpj    string `json:"cpf_cnpj"`
	Email      string `json:"email"`
	WalletType string `json:"wallet_type"`
	Balance    int64  `json:"balance"`
	CreatedAt  string `json:"created_at"`
}

// TransferRequest is the request body for a transfer. Value is in cents.
type TransferRequest struct {
	Value int64 `json:"value" binding:"required,gt=0"`
	Payer int64 `json:"payer" binding:"required,gt=0"`
	Payee int64 `json:"payee" binding:"required,gt=0"`
}

// TransferResponse is the response body for transfer results.
type TransferResponse struct {
	ID        string `json:"id"`
	Payer     int64  `json:"payer"`
	Payee     int64  `json:"payee"`
	Value     int64  `json:"value"`
	CreatedAt string `json:"created_at"`
}

// TransferListResponse wraps a wallet's transfer history.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
}
