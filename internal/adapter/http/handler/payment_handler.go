package handler

import (
	"echeck-gateway/internal/adapter/http/dto"
	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles sending payments and voiding checks.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// SendPayment handles POST /api/v1/payments. A stripe payout still
// awaiting the provider answers 202.
func (h *PaymentHandler) SendPayment(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}

	var req dto.SendPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.paymentSvc.SendPayment(c.Request.Context(), ports.SendPaymentRequest{
		IssuerID:               id,
		AccountID:              uuid.MustParse(req.AccountID),
		ReferenceID:            req.ReferenceID,
		Amount:                 req.Amount,
		RecipientName:          req.RecipientName,
		Memo:                   req.Memo,
		DeliveryMethod:         domain.DeliveryMethod(req.DeliveryMethod),
		RecipientRoutingNumber: req.RecipientRoutingNumber,
		RecipientAccountNumber: req.RecipientAccountNumber,
		SignatureData:          req.SignatureData,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if txn.Status == domain.TransactionStatusPending {
		response.Accepted(c, txn)
		return
	}
	response.Created(c, txn)
}

// Void handles POST /api/v1/transactions/:id/void.
func (h *PaymentHandler) Void(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	txID, ok := pathID(c)
	if !ok {
		return
	}

	txn, err := h.paymentSvc.VoidCheck(c.Request.Context(), id, txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txn)
}
