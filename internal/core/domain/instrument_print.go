package domain

import (
	"time"

	"echeck-gateway/internal/check"

	"github.com/google/uuid"
)

// InstrumentPrint is the archived snapshot of one print of a check.
type InstrumentPrint struct {
	IssuerID      uuid.UUID         `json:"issuer_id"`
	TransactionID uuid.UUID         `json:"transaction_id"`
	PrintNumber   int               `json:"print_number"`
	Instrument    *check.Instrument `json:"instrument"`
	PrintedAt     time.Time         `json:"printed_at"`
}
