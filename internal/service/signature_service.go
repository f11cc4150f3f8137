package service

import (
	"errors"
	"fmt"

	"echeck-gateway/internal/signature"
	"echeck-gateway/pkg/apperror"
)

// ImageSignatureService implements ports.SignatureService over the
// signature rasterizer.
type ImageSignatureService struct{}

func NewImageSignatureService() *ImageSignatureService {
	return &ImageSignatureService{}
}

// RenderTyped returns a base64 PNG of name drawn as a signature.
func (s *ImageSignatureService) RenderTyped(name string) (string, error) {
	img, err := signature.RenderTyped(name)
	switch {
	case errors.Is(err, signature.ErrEmptyName), errors.Is(err, signature.ErrNameTooLong):
		return "", apperror.Validation("name: " + err.Error())
	case err != nil:
		return "", apperror.InternalError(fmt.Errorf("render signature: %w", err))
	}
	return img, nil
}

func (s *ImageSignatureService) Validate(data string) error {
	_, err := s.Normalize(data)
	return err
}

func (s *ImageSignatureService) Normalize(data string) (string, error) {
	payload, err := signature.Normalize(data)
	if err != nil {
		return "", apperror.Validation("signature_data: " + err.Error())
	}
	return payload, nil
}
