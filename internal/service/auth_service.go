package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	issuerRepo ports.IssuerRepository
	hashSvc    ports.HashService
	tokenSvc   ports.TokenService
}

func NewAuthService(
	issuerRepo ports.IssuerRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		issuerRepo: issuerRepo,
		hashSvc:    hashSvc,
		tokenSvc:   tokenSvc,
	}
}

// Register creates an active issuer. Emails are compared case-insensitively.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Issuer, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.issuerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	issuer := &domain.Issuer{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		BusinessName: strings.TrimSpace(req.BusinessName),
		Status:       domain.IssuerStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.issuerRepo.Create(ctx, issuer); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return nil, apperror.ErrEmailExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create issuer: %w", err))
	}

	return issuer, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	issuer, err := s.issuerRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find issuer: %w", err))
	}
	if issuer == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, issuer.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !issuer.IsActive() {
		return "", time.Time{}, apperror.ErrIssuerSuspended()
	}

	token, expiry, err := s.tokenSvc.Generate(issuer.ID, issuer.Email)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
