package handler

import (
	"echeck-gateway/internal/adapter/http/dto"
	"echeck-gateway/internal/adapter/http/middleware"
	"echeck-gateway/pkg/apperror"
	"echeck-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// issuerID returns the authenticated issuer or writes AUTH_003.
func issuerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.IssuerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
	}
	return id, ok
}

// pathID parses the :id route parameter or writes PAY_002.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid id: must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds and sanitizes the body, writing PAY_002 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.SanitizeStruct(req)
	return true
}
