package handler

import (
	"echeck-gateway/internal/adapter/http/dto"
	"echeck-gateway/internal/check"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// ToolsHandler serves the payment-form helpers: memo suggestions and typed
// signatures.
type ToolsHandler struct {
	memoSvc ports.MemoService
	sigSvc  ports.SignatureService
}

func NewToolsHandler(memoSvc ports.MemoService, sigSvc ports.SignatureService) *ToolsHandler {
	return &ToolsHandler{memoSvc: memoSvc, sigSvc: sigSvc}
}

// SuggestMemo handles POST /api/v1/memos/suggest. It always answers 200;
// the source field tells a generated memo from the fallback.
func (h *ToolsHandler) SuggestMemo(c *gin.Context) {
	var req dto.MemoSuggestRequest
	if !bindJSON(c, &req) {
		return
	}

	memoReq := ports.MemoRequest{RecipientName: req.RecipientName, Purpose: req.Purpose}
	if check.Bounded(req.Amount) && req.Amount.IsPositive() && req.Amount.LessThanOrEqual(check.MaxAmount) {
		memoReq.Amount = check.FormatAmount(req.Amount)
	}
	response.OK(c, h.memoSvc.Suggest(c.Request.Context(), memoReq))
}

// TypedSignature handles POST /api/v1/signatures/typed.
func (h *ToolsHandler) TypedSignature(c *gin.Context) {
	var req dto.TypedSignatureRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.sigSvc.RenderTyped(req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.TypedSignatureResponse{SignatureData: data})
}
