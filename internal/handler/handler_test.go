package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/extract"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
)

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestHandleErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", appErr.ErrNotFound, http.StatusNotFound, "not_found"},
		{"no content", appErr.ErrNoContent, http.StatusBadRequest, "no_content"},
		{"invalid", appErr.ErrInvalid, http.StatusBadRequest, "invalid"},
		{"wrapped invalid", errors.Join(appErr.ErrInvalid, errors.New("detail")), http.StatusBadRequest, "invalid"},
		{"chunker config", extract.ErrInvalidConfig, http.StatusBadRequest, "invalid"},
		{"conflict", appErr.ErrConflict, http.StatusConflict, "conflict"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t, http.MethodGet, "/api/v1/test", "")
			handleError(c, tt.err)
			require.Equal(t, tt.wantStatus, w.Code)
			require.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestExtractRejectsMissingDocumentID(t *testing.T) {
	h := NewExtractHandler(nil)
	c, w := testContext(t, http.MethodPost, "/api/v1/extract", `{}`)
	h.Extract(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid", errorCode(t, w))
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	h := NewAskHandler(nil)
	c, w := testContext(t, http.MethodPost, "/api/v1/ask", `{"question":"   "}`)
	h.Ask(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid", errorCode(t, w))
}

func TestAuditRejectsBadJSON(t *testing.T) {
	h := NewAuditHandler(nil)
	c, w := testContext(t, http.MethodPost, "/api/v1/audit", `{not json`)
	h.Audit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestRejectsNonMultipart(t *testing.T) {
	h := NewIngestHandler(nil)
	c, w := testContext(t, http.MethodPost, "/api/v1/ingest", `{}`)
	h.Ingest(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid_file", errorCode(t, w))
}

func TestParseUintQuery(t *testing.T) {
	c, _ := testContext(t, http.MethodGet, "/api/v1/documents?skip=4&limit=300&bad=x", "")
	require.Equal(t, uint(4), parseUintQuery(c, "skip", 0, 0))
	require.Equal(t, uint(100), parseUintQuery(c, "limit", 20, 100))
	require.Equal(t, uint(20), parseUintQuery(c, "missing", 20, 100))
	require.Equal(t, uint(7), parseUintQuery(c, "bad", 7, 100))
}
