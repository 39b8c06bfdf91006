package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), ErrorHandler())
	engine.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("upstream exploded"))
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/boom", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderXRequestID, "req-1234")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-1234", resp.TraceID)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Message, "upstream exploded")
}

func TestErrorHandlerGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), ErrorHandler())
	engine.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("nope"))
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/boom", nil)
	require.NoError(t, err)
	engine.ServeHTTP(w, req)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TraceID, "a generated request ID must reach the error envelope")
	assert.Equal(t, w.Header().Get(HeaderXRequestID), resp.TraceID)
}
