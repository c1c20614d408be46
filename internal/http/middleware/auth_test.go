// README: Tests for the bearer credential middleware.
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/http/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequireBearer())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.BearerToken(c))
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireBearer_MissingHeader(t *testing.T) {
	w := doGet(newTestRouter(), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireBearer_InvalidPrefix(t *testing.T) {
	w := doGet(newTestRouter(), "Token sometoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireBearer_EmptyToken(t *testing.T) {
	w := doGet(newTestRouter(), "Bearer   ")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireBearer_TokenStored(t *testing.T) {
	w := doGet(newTestRouter(), "bearer ya29.token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "ya29.token" {
		t.Errorf("expected token ya29.token, got %q", got)
	}
}
