package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clauselens/clauselens/internal/pkg/response"
	"github.com/clauselens/clauselens/internal/service"
)

type AskHandler struct {
	qa *service.QAService
}

func NewAskHandler(qa *service.QAService) *AskHandler {
	return &AskHandler{qa: qa}
}

type askRequest struct {
	Question    string   `json:"question"`
	DocumentIDs []string `json:"document_ids"`
	MaxResults  int      `json:"max_results"`
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "question cannot be empty")
		return
	}
	answer, err := h.qa.Ask(c.Request.Context(), req.Question, req.DocumentIDs, req.MaxResults)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, answer)
}
