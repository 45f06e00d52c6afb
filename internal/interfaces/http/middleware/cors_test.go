package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(cfg))
	r.POST("/v1/chat/messages", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestCORSPreflightAllowsSessionHeader(t *testing.T) {
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"http://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/chat/messages", nil)
	req.Header.Set("Origin", "http://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Session-ID")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Session-ID")
	assert.NotContains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestCORSExposesSessionHeader(t *testing.T) {
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"http://app.example.com"}})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/messages", nil)
	req.Header.Set("Origin", "http://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Session-ID")
}
