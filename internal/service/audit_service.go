package service

import (
	"context"
	"encoding/json"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates the audit service.
// If repo is nil, audit entries only go to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Log records entry in the background so a slow audit table never delays a
// response.
func (s *auditService) Log(_ context.Context, entry *domain.AuditLog) {
	go func() {
		ev := s.log.Info().
			Str("action", string(entry.Action)).
			Str("resource_type", entry.ResourceType).
			Str("resource_id", entry.ResourceID).
			Str("ip", entry.IPAddress)
		if entry.IssuerID != nil {
			ev = ev.Str("issuer_id", entry.IssuerID.String())
		}
		ev.Msg("audit")

		if s.repo == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
		}
	}()
}

// NewAuditEntry builds an entry; details is marshaled to JSON when non-nil.
func NewAuditEntry(issuerID *uuid.UUID, action domain.AuditAction, resourceType, resourceID, ip string, details interface{}) *domain.AuditLog {
	entry := &domain.AuditLog{
		ID:           uuid.New(),
		IssuerID:     issuerID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
		CreatedAt:    time.Now().UTC(),
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}
	return entry
}

type clientIPKey struct{}

// WithClientIP stores the caller's address for audit entries written
// below the HTTP layer.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the address stored by WithClientIP, or "".
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
