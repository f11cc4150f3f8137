package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FirstCheckNumber is the check number assigned to the first check drawn on
// a newly linked account.
const FirstCheckNumber int64 = 1001

// BankAccount is an issuer's checking account that checks are drawn on.
// The full account number is only held encrypted.
type BankAccount struct {
	ID                uuid.UUID `json:"id"`
	IssuerID          uuid.UUID `json:"issuer_id"`
	BankName          string    `json:"bank_name"`
	BankAddress       string    `json:"bank_address"`
	RoutingNumber     string    `json:"routing_number"`
	AccountNumberEnc  string    `json:"-"`
	AccountLast4      string    `json:"account_last4"`
	FractionalRouting *string   `json:"fractional_routing,omitempty"`
	NextCheckNumber   int64     `json:"next_check_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OwnedBy reports whether the account belongs to issuerID.
func (a *BankAccount) OwnedBy(issuerID uuid.UUID) bool {
	return a.IssuerID == issuerID
}

// MaskedAccountNumber renders the account number for listings, e.g. "****6789".
func (a *BankAccount) MaskedAccountNumber() string {
	return strings.Repeat("*", 4) + a.AccountLast4
}

// LastFour returns the trailing four characters of an account number.
func LastFour(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return accountNumber[len(accountNumber)-4:]
}

// BankAccountPatch carries the editable fields of a bank account; nil
// fields are left unchanged.
type BankAccountPatch struct {
	BankName          *string
	BankAddress       *string
	FractionalRouting *string
}

func (p BankAccountPatch) Empty() bool {
	return p.BankName == nil && p.BankAddress == nil && p.FractionalRouting == nil
}
