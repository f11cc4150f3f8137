package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a change pushed to an issuer's live subscribers.
type EventType string

const (
	EventAccountLinked      EventType = "account.linked"
	EventAccountUpdated     EventType = "account.updated"
	EventAccountDeleted     EventType = "account.deleted"
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionUpdated EventType = "transaction.updated"
	EventCheckPrinted       EventType = "check.printed"
)

// ChangeEvent is one entry of an issuer's change feed.
type ChangeEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       EventType       `json:"type"`
	IssuerID   uuid.UUID       `json:"issuer_id"`
	ResourceID uuid.UUID       `json:"resource_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewChangeEvent builds an event, marshaling data as its payload.
func NewChangeEvent(t EventType, issuerID, resourceID uuid.UUID, data interface{}) (ChangeEvent, error) {
	ev := ChangeEvent{
		ID:         uuid.New(),
		Type:       t,
		IssuerID:   issuerID,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return ChangeEvent{}, err
		}
		ev.Data = raw
	}
	return ev, nil
}

// Subscription failure reasons delivered to stream consumers.
const (
	StreamErrPermissionDenied = "permission-denied"
	StreamErrUnavailable      = "unavailable"
)
