package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/extract"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
	"github.com/clauselens/clauselens/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", "document not found")
	case errors.Is(err, appErr.ErrNoContent):
		response.Error(c, http.StatusBadRequest, "no_content", "document has no extractable text")
	case errors.Is(err, appErr.ErrInvalid), errors.Is(err, extract.ErrInvalidConfig):
		response.Error(c, http.StatusBadRequest, "invalid", err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, http.StatusConflict, "conflict", "conflict")
	default:
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
