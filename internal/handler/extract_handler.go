package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clauselens/clauselens/internal/pkg/response"
	"github.com/clauselens/clauselens/internal/service"
)

type ExtractHandler struct {
	extractions *service.ExtractionService
}

func NewExtractHandler(extractions *service.ExtractionService) *ExtractHandler {
	return &ExtractHandler{extractions: extractions}
}

type extractRequest struct {
	DocumentID string `json:"document_id"`
}

func (h *ExtractHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	if req.DocumentID == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "document_id required")
		return
	}
	result, err := h.extractions.Extract(c.Request.Context(), req.DocumentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
