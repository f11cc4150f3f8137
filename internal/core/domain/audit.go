package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister      AuditAction = "REGISTER"
	AuditActionLogin         AuditAction = "LOGIN"
	AuditActionLinkAccount   AuditAction = "LINK_ACCOUNT"
	AuditActionUpdateAccount AuditAction = "UPDATE_ACCOUNT"
	AuditActionDeleteAccount AuditAction = "DELETE_ACCOUNT"
	AuditActionSendPayment   AuditAction = "SEND_PAYMENT"
	AuditActionVoidCheck     AuditAction = "VOID_CHECK"
	AuditActionPrintCheck    AuditAction = "PRINT_CHECK"
	AuditActionSignature     AuditAction = "CREATE_SIGNATURE"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	IssuerID     *uuid.UUID  `json:"issuer_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
