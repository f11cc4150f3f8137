package handler

import (
	"echeck-gateway/internal/adapter/http/dto"
	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/apperror"
	"echeck-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles the bank account endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// Link handles POST /api/v1/accounts.
func (h *AccountHandler) Link(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	var req dto.LinkAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	acct, err := h.accountSvc.Link(c.Request.Context(), ports.LinkAccountRequest{
		IssuerID:          id,
		BankName:          req.BankName,
		BankAddress:       req.BankAddress,
		RoutingNumber:     req.RoutingNumber,
		AccountNumber:     req.AccountNumber,
		FractionalRouting: req.FractionalRouting,
		StartCheckNumber:  req.StartCheckNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toAccountResponse(acct))
}

// List handles GET /api/v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	accts, err := h.accountSvc.List(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AccountResponse, 0, len(accts))
	for i := range accts {
		items = append(items, toAccountResponse(&accts[i]))
	}
	response.OK(c, items)
}

// Get handles GET /api/v1/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}
	acct, err := h.accountSvc.Get(c.Request.Context(), id, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponse(acct))
}

// Update handles PATCH /api/v1/accounts/:id.
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := domain.BankAccountPatch{
		BankName:          req.BankName,
		BankAddress:       req.BankAddress,
		FractionalRouting: req.FractionalRouting,
	}
	if patch.Empty() {
		response.Error(c, apperror.Validation("no fields to update"))
		return
	}

	acct, err := h.accountSvc.Update(c.Request.Context(), id, accountID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponse(acct))
}

// Delete handles DELETE /api/v1/accounts/:id.
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.accountSvc.Delete(c.Request.Context(), id, accountID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func toAccountResponse(a *domain.BankAccount) dto.AccountResponse {
	return dto.AccountResponse{BankAccount: a, AccountNumber: a.MaskedAccountNumber()}
}
