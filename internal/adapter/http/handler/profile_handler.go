package handler

import (
	"echeck-gateway/internal/adapter/http/dto"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the authenticated issuer's profile.
type ProfileHandler struct {
	issuerSvc ports.IssuerService
}

func NewProfileHandler(issuerSvc ports.IssuerService) *ProfileHandler {
	return &ProfileHandler{issuerSvc: issuerSvc}
}

// Get handles GET /api/v1/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	issuer, err := h.issuerSvc.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, issuer)
}

// Update handles PATCH /api/v1/profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := issuerID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	issuer, err := h.issuerSvc.UpdateBusinessName(c.Request.Context(), id, req.BusinessName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, issuer)
}
