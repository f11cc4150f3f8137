package handler

import (
	"math"
	"strconv"
	"time"

	"echeck-gateway/internal/adapter/http/dto"
	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/internal/service"
	"echeck-gateway/pkg/apperror"
	"echeck-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles history, dashboard and check instrument
// endpoints.
type TransactionHandler struct {
	reportingSvc ports.ReportingService
	checkSvc     ports.CheckService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(reportingSvc ports.ReportingService, checkSvc ports.CheckService) *TransactionHandler {
	return &TransactionHandler{reportingSvc: reportingSvc, checkSvc: checkSvc}
}

// GetStats handles GET /api/v1/dashboard/stats.
func (h *TransactionHandler) GetStats(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}

	stats, err := h.reportingSvc.GetDashboardStats(c.Request.Context(), id, c.DefaultQuery("period", "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > service.MaxPageSize {
		pageSize = service.DefaultPageSize
	}

	params := ports.TransactionListParams{
		IssuerID: id,
		Page:     page,
		PageSize: pageSize,
	}

	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if d := c.Query("delivery_method"); d != "" {
		method := domain.DeliveryMethod(d)
		params.DeliveryMethod = &method
	}
	if a := c.Query("account_id"); a != "" {
		accountID, err := uuid.Parse(a)
		if err != nil {
			response.Error(c, apperror.Validation("invalid account_id"))
			return
		}
		params.AccountID = &accountID
	}

	var err error
	if params.From, err = parseTimeParam(c.Query("from"), false); err != nil {
		response.Error(c, apperror.Validation("invalid from: use RFC 3339 or YYYY-MM-DD"))
		return
	}
	if params.To, err = parseTimeParam(c.Query("to"), true); err != nil {
		response.Error(c, apperror.Validation("invalid to: use RFC 3339 or YYYY-MM-DD"))
		return
	}

	txns, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransactionListResponse{
		Items:      txns,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	})
}

// parseTimeParam accepts RFC 3339 or a bare date. A bare "to" date covers
// the whole day.
func parseTimeParam(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	txID, ok := pathID(c)
	if !ok {
		return
	}

	txn, err := h.reportingSvc.GetTransaction(c.Request.Context(), id, txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txn)
}

// Instrument handles GET /api/v1/transactions/:id/instrument.
func (h *TransactionHandler) Instrument(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	txID, ok := pathID(c)
	if !ok {
		return
	}

	inst, err := h.checkSvc.GetInstrument(c.Request.Context(), id, txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, inst)
}

// Print handles POST /api/v1/transactions/:id/print.
func (h *TransactionHandler) Print(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	txID, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.checkSvc.PrintInstrument(c.Request.Context(), id, txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PrintResponse{
		PrintNumber: p.PrintNumber,
		PrintedAt:   p.PrintedAt.UTC().Format(time.RFC3339),
		Instrument:  p.Instrument,
	})
}

// Prints handles GET /api/v1/transactions/:id/prints.
func (h *TransactionHandler) Prints(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	txID, ok := pathID(c)
	if !ok {
		return
	}

	prints, err := h.checkSvc.ListPrints(c.Request.Context(), id, txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, prints)
}
