package dto

import (
	"echeck-gateway/internal/core/domain"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for issuer registration.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email,max=254"`
	Password     string `json:"password" binding:"required,min=8,max=128" sanitize:"-"`
	BusinessName string `json:"business_name" binding:"required,min=1,max=100"`
}

// LoginRequest is the request body for issuer login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// UpdateProfileRequest is the request body for PATCH /profile.
type UpdateProfileRequest struct {
	BusinessName string `json:"business_name" binding:"required,min=1,max=100"`
}

// LinkAccountRequest is the request body for linking a bank account.
type LinkAccountRequest struct {
	BankName          string  `json:"bank_name" binding:"required,max=100"`
	BankAddress       string  `json:"bank_address" binding:"max=200"`
	RoutingNumber     string  `json:"routing_number" binding:"required,aba_routing"`
	AccountNumber     string  `json:"account_number" binding:"required,digits,min=4,max=17"`
	FractionalRouting *string `json:"fractional_routing,omitempty" binding:"omitempty,max=20"`
	StartCheckNumber  *int64  `json:"start_check_number,omitempty" binding:"omitempty,gte=1"`
}

// UpdateAccountRequest is the request body for PATCH /accounts/:id.
type UpdateAccountRequest struct {
	BankName          *string `json:"bank_name,omitempty" binding:"omitempty,min=1,max=100"`
	BankAddress       *string `json:"bank_address,omitempty" binding:"omitempty,max=200"`
	FractionalRouting *string `json:"fractional_routing,omitempty" binding:"omitempty,max=20"`
}

// AccountResponse is a bank account with its number masked.
type AccountResponse struct {
	*domain.BankAccount
	AccountNumber string `json:"account_number"`
}

// SendPaymentRequest is the request body for POST /payments. Amount is in
// dollars and accepts a JSON number or string.
type SendPaymentRequest struct {
	AccountID              string          `json:"account_id" binding:"required,uuid"`
	ReferenceID            string          `json:"reference_id" binding:"required,max=100,safe_id"`
	Amount                 decimal.Decimal `json:"amount"`
	RecipientName          string          `json:"recipient_name" binding:"required,max=100"`
	Memo                   string          `json:"memo" binding:"max=200"`
	DeliveryMethod         string          `json:"delivery_method" binding:"required,delivery_method"`
	RecipientRoutingNumber string          `json:"recipient_routing_number" binding:"omitempty,aba_routing"`
	RecipientAccountNumber string          `json:"recipient_account_number" binding:"omitempty,digits,min=4,max=17"`
	SignatureData          string          `json:"signature_data" sanitize:"-"`
}

// MemoSuggestRequest is the request body for POST /memos/suggest.
type MemoSuggestRequest struct {
	RecipientName string          `json:"recipient_name" binding:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	Purpose       string          `json:"purpose" binding:"max=200"`
}

// TypedSignatureRequest is the request body for POST /signatures/typed.
type TypedSignatureRequest struct {
	Name string `json:"name" binding:"required,max=60"`
}

// TypedSignatureResponse carries the rendered signature as base64 PNG.
type TypedSignatureResponse struct {
	SignatureData string `json:"signature_data"`
}

// PrintResponse is returned by POST /transactions/:id/print.
type PrintResponse struct {
	PrintNumber int         `json:"print_number"`
	PrintedAt   string      `json:"printed_at"`
	Instrument  interface{} `json:"instrument"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []domain.Transaction `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}
