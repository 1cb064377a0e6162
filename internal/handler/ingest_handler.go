package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clauselens/clauselens/internal/pkg/response"
	"github.com/clauselens/clauselens/internal/service"
)

type IngestHandler struct {
	documents *service.DocumentService
}

func NewIngestHandler(documents *service.DocumentService) *IngestHandler {
	return &IngestHandler{documents: documents}
}

func (h *IngestHandler) Ingest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_file", "multipart form is required")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, "invalid_file", "at least one file is required")
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		opened, err := header.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid_file", "failed to open uploaded file")
			return
		}
		files = append(files, service.UploadFile{
			Filename: header.Filename,
			Content:  opened,
			Size:     header.Size,
		})
	}

	result, err := h.documents.Ingest(c.Request.Context(), files)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, result)
}
