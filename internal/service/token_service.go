package service

import (
	"errors"
	"fmt"
	"time"

	"echeck-gateway/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// issuerClaims is the session token payload. Subject carries the issuer id.
type issuerClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTTokenService implements ports.TokenService using HS256 JWT.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Generate signs a session token for the issuer.
func (s *JWTTokenService) Generate(issuerID uuid.UUID, email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := issuerClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   issuerID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature, algorithm, issuer and expiry.
func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	var claims issuerClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	issuerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.New("token subject is not an issuer id")
	}

	return &ports.TokenClaims{IssuerID: issuerID, Email: claims.Email}, nil
}
