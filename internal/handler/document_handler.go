package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clauselens/clauselens/internal/pkg/response"
	"github.com/clauselens/clauselens/internal/service"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type DocumentHandler struct {
	documents   *service.DocumentService
	extractions *service.ExtractionService
}

func NewDocumentHandler(documents *service.DocumentService, extractions *service.ExtractionService) *DocumentHandler {
	return &DocumentHandler{documents: documents, extractions: extractions}
}

func (h *DocumentHandler) List(c *gin.Context) {
	skip := parseUintQuery(c, "skip", 0, 0)
	limit := parseUintQuery(c, "limit", defaultListLimit, maxListLimit)
	list, err := h.documents.List(c.Request.Context(), skip, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, list)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	docID := c.Param("id")
	if err := h.documents.Delete(c.Request.Context(), docID); err != nil {
		handleError(c, err)
		return
	}
	h.extractions.Invalidate(docID)
	response.Success(c, gin.H{"deleted": true, "document_id": docID})
}

func parseUintQuery(c *gin.Context, key string, fallback, max uint) uint {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	out := uint(parsed)
	if max > 0 && out > max {
		return max
	}
	return out
}
