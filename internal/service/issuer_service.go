package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/apperror"

	"github.com/google/uuid"
)

type issuerService struct {
	issuerRepo ports.IssuerRepository
}

// NewIssuerService creates the issuer profile service.
func NewIssuerService(issuerRepo ports.IssuerRepository) ports.IssuerService {
	return &issuerService{issuerRepo: issuerRepo}
}

func (s *issuerService) GetProfile(ctx context.Context, issuerID uuid.UUID) (*domain.Issuer, error) {
	issuer, err := s.issuerRepo.GetByID(ctx, issuerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get issuer: %w", err))
	}
	if issuer == nil {
		return nil, apperror.ErrNotFound("Issuer")
	}
	return issuer, nil
}

// UpdateBusinessName changes the payer name printed on future checks.
// Checks already rendered keep the name they were printed with.
func (s *issuerService) UpdateBusinessName(ctx context.Context, issuerID uuid.UUID, businessName string) (*domain.Issuer, error) {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, apperror.Validation("business_name must not be blank")
	}

	issuer, err := s.GetProfile(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	issuer.BusinessName = businessName
	issuer.UpdatedAt = time.Now().UTC()

	if err := s.issuerRepo.Update(ctx, issuer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update issuer: %w", err))
	}
	return issuer, nil
}
