package service

import (
	"context"
	"strings"

	"echeck-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	MemoSourceAI       = "ai"
	MemoSourceFallback = "fallback"
)

// MemoServiceImpl implements ports.MemoService.
type MemoServiceImpl struct {
	suggester ports.MemoSuggester // nil always falls back
	log       zerolog.Logger
}

func NewMemoService(suggester ports.MemoSuggester, log zerolog.Logger) *MemoServiceImpl {
	return &MemoServiceImpl{suggester: suggester, log: log}
}

// Suggest asks the suggester for a memo and falls back to a fixed phrase
// when it is disabled, fails, or returns nothing usable.
func (s *MemoServiceImpl) Suggest(ctx context.Context, req ports.MemoRequest) ports.MemoSuggestion {
	req.RecipientName = strings.TrimSpace(req.RecipientName)
	req.Purpose = strings.TrimSpace(req.Purpose)

	if s.suggester != nil {
		memo, err := s.suggester.Suggest(ctx, req)
		memo = strings.TrimSpace(memo)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("memo suggestion failed, using fallback")
		case memo != "":
			return ports.MemoSuggestion{Memo: memo, Source: MemoSourceAI}
		}
	}
	return ports.MemoSuggestion{Memo: FallbackMemo(req.RecipientName), Source: MemoSourceFallback}
}

// FallbackMemo is the memo used when no suggestion is available.
func FallbackMemo(recipient string) string {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return "Payment"
	}
	return "Payment to " + recipient
}
