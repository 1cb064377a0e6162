package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clauselens/clauselens/internal/pkg/response"
	"github.com/clauselens/clauselens/internal/service"
)

type AuditHandler struct {
	audits *service.AuditService
}

func NewAuditHandler(audits *service.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

type auditRequest struct {
	DocumentID string `json:"document_id"`
}

func (h *AuditHandler) Audit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	if req.DocumentID == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "document_id required")
		return
	}
	result, err := h.audits.Audit(c.Request.Context(), req.DocumentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
