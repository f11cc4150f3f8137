package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog maps a client reference to the transaction it created.
type IdempotencyLog struct {
	Key           string    `json:"key"` // Format: "issuer_id:reference_id"
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"`
	CreatedAt     time.Time `json:"created_at"`
}

// BuildIdempotencyKey constructs the standard key format.
func BuildIdempotencyKey(issuerID uuid.UUID, referenceID string) string {
	return issuerID.String() + ":" + referenceID
}
