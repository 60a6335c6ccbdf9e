package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessKeepsEmptyList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusOK, []string{}, "items", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "data")
	assert.JSONEq(t, `[]`, string(body["data"]))
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-1")

	Error[any](c, 0, "bad input", map[string]string{"title": "is required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Success   bool              `json:"success"`
		Message   string            `json:"message"`
		RequestID string            `json:"request_id"`
		Error     map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "bad input", body.Message)
	assert.Equal(t, "rid-1", body.RequestID)
	assert.Equal(t, "is required", body.Error["title"])
}
