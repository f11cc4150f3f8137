package domain

import (
	"time"

	"github.com/google/uuid"
)

// IssuerStatus represents the state of an issuer account.
type IssuerStatus string

const (
	IssuerStatusActive    IssuerStatus = "ACTIVE"
	IssuerStatusSuspended IssuerStatus = "SUSPENDED"
)

// Issuer is a business that writes checks. BusinessName is printed as the
// payer on every instrument it issues.
type Issuer struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose
	BusinessName string       `json:"business_name"`
	Status       IssuerStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (i *Issuer) IsActive() bool {
	return i.Status == IssuerStatusActive
}
