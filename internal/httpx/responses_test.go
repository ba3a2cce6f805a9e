package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))

	JSONSuccess(w, r, map[string]string{"key": "value"}, map[string]any{"total": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    map[string]any    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "value", resp.Data["key"])
	assert.Equal(t, "req-1", resp.Meta["request_id"])
	assert.EqualValues(t, 10, resp.Meta["total"])
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Validation failed", []ErrorDetail{
		{Field: "isbn", Message: "ISBN is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Equal(t, []ErrorDetail{{Field: "isbn", Message: "ISBN is required"}}, resp.Error.Details)
	assert.Nil(t, resp.Meta)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Dune","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Dune"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "Dune", dst.Title)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }),
		AccessLogMiddleware(zap.NewNop()),
		RecoveryMiddleware(zap.NewNop()),
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
