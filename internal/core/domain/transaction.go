package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyUSD is the only supported currency.
const CurrencyUSD = "USD"

// DeliveryMethod is how a payment reaches the recipient.
type DeliveryMethod string

const (
	DeliveryPrint  DeliveryMethod = "print"
	DeliveryStripe DeliveryMethod = "stripe"
)

func (d DeliveryMethod) Valid() bool {
	return d == DeliveryPrint || d == DeliveryStripe
}

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
	TransactionStatusVoided  TransactionStatus = "VOIDED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccess, TransactionStatusFailed, TransactionStatusVoided:
		return true
	}
	return false
}

// Transaction is a single payment. Everything except status, payout
// outcome and print count is fixed at creation.
type Transaction struct {
	ID                     uuid.UUID         `json:"id"`
	IssuerID               uuid.UUID         `json:"issuer_id"`
	AccountID              uuid.UUID         `json:"account_id"`
	ReferenceID            string            `json:"reference_id"`
	Amount                 int64             `json:"amount"` // cents
	Currency               string            `json:"currency"`
	RecipientName          string            `json:"recipient_name"`
	Memo                   string            `json:"memo,omitempty"`
	CheckNumber            int64             `json:"check_number,omitempty"`
	DeliveryMethod         DeliveryMethod    `json:"delivery_method"`
	Status                 TransactionStatus `json:"status"`
	RecipientRoutingNumber *string           `json:"recipient_routing_number,omitempty"`
	RecipientAccountEnc    *string           `json:"-"`
	RecipientAccountLast4  *string           `json:"recipient_account_last4,omitempty"`
	ExternalID             *string           `json:"external_id,omitempty"`
	FailureReason          *string           `json:"failure_reason,omitempty"`
	SignatureData          *string           `json:"-"` // served only on the instrument view
	PrintCount             int               `json:"print_count"`
	InitiatedAt            time.Time         `json:"initiated_at"`
	ProcessedAt            *time.Time        `json:"processed_at,omitempty"`
}

// IsTerminal reports whether the transaction can no longer change status.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusFailed || t.Status == TransactionStatusVoided
}

// IsVoidable reports whether a printed check may still be voided. Stripe
// payouts are irrevocable once submitted.
func (t *Transaction) IsVoidable() bool {
	return t.DeliveryMethod == DeliveryPrint && !t.IsTerminal()
}

// IsPrintable reports whether an instrument may be rendered for t.
func (t *Transaction) IsPrintable() bool {
	return t.DeliveryMethod == DeliveryPrint && t.Status == TransactionStatusSuccess
}

// AmountDecimal returns the amount in dollars.
func (t *Transaction) AmountDecimal() decimal.Decimal {
	return decimal.New(t.Amount, -2)
}

// CheckNumberString formats the check number for display and the MICR line.
// It is empty when no number was assigned, letting the renderer default it.
func (t *Transaction) CheckNumberString() string {
	if t.CheckNumber == 0 {
		return ""
	}
	return strconv.FormatInt(t.CheckNumber, 10)
}

// ToCents converts a dollar amount to cents. Callers validate the scale first.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}
