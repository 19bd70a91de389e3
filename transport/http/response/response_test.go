package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/rsalab/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGinJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	GinJSON(c, gin.H{"n": "3233"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, map[string]any{"n": "3233"}, resp.Data)
}

func TestGinJSONE(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	GinJSONE(c, errors.BadRequest("rsa: block value out of range for modulus").WithMetadata(map[string]string{"block": "2"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, c.IsAborted())
	resp := decode(t, w)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "rsa: block value out of range for modulus", resp.Message)
	assert.Equal(t, map[string]any{"block": "2"}, resp.Data)
}

func TestGinJSONEPlainError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	GinJSONE(c, fmt.Errorf("boom"))

	resp := decode(t, w)
	assert.Equal(t, errors.UnknownCode, resp.Code)
	assert.Equal(t, "boom", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestGinJSONENil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	GinJSONE(c, nil)

	resp := decode(t, w)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
