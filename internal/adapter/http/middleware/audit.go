package middleware

import (
	"net/http"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type auditRoute struct {
	action       domain.AuditAction
	resourceType string
}

// auditedRoutes maps "METHOD route-pattern" to an audit action. Printing is
// audited by the check service itself.
var auditedRoutes = map[string]auditRoute{
	"POST /api/v1/auth/register":         {domain.AuditActionRegister, "issuer"},
	"POST /api/v1/auth/login":            {domain.AuditActionLogin, "session"},
	"POST /api/v1/accounts":              {domain.AuditActionLinkAccount, "bank_account"},
	"PATCH /api/v1/accounts/:id":         {domain.AuditActionUpdateAccount, "bank_account"},
	"DELETE /api/v1/accounts/:id":        {domain.AuditActionDeleteAccount, "bank_account"},
	"POST /api/v1/payments":              {domain.AuditActionSendPayment, "transaction"},
	"POST /api/v1/transactions/:id/void": {domain.AuditActionVoidCheck, "transaction"},
	"POST /api/v1/signatures/typed":      {domain.AuditActionSignature, "signature"},
}

// AuditLog records successful write operations after the handler ran.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		route, ok := auditedRoutes[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return
		}

		var issuerID *uuid.UUID
		if id, ok := IssuerID(c); ok {
			issuerID = &id
		}

		auditSvc.Log(c.Request.Context(), service.NewAuditEntry(
			issuerID,
			route.action,
			route.resourceType,
			c.Param("id"),
			c.ClientIP(),
			map[string]interface{}{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"status": status,
			},
		))
	}
}
