package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-internship-backend/internal/delivery/http/middleware"
	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T, ttl time.Duration) (*gin.Engine, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewService("middleware-test-secret", ttl)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(tokens), func(c *gin.Context) {
		ginID := c.GetString(string(domain.KeyApplicantID))
		ctxID, _ := c.Request.Context().Value(domain.KeyApplicantID).(string)
		c.JSON(http.StatusOK, gin.H{"gin_id": ginID, "ctx_id": ctxID})
	})
	return r, tokens
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("Should reject a request without a token", func(t *testing.T) {
		r, _ := setupAuthRouter(t, time.Hour)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication failed")
	})

	t.Run("Should reject a malformed token with the same message", func(t *testing.T) {
		r, _ := setupAuthRouter(t, time.Hour)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "not.a.token"})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication failed")
	})

	t.Run("Should reject an expired token with the same message", func(t *testing.T) {
		r, tokens := setupAuthRouter(t, time.Millisecond)

		tok, err := tokens.Issue("applicant-1")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tok})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication failed")
	})

	t.Run("Should attach the identity to both contexts on a valid cookie", func(t *testing.T) {
		r, tokens := setupAuthRouter(t, time.Hour)

		tok, err := tokens.Issue("applicant-1")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tok})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"gin_id":"applicant-1"`)
		assert.Contains(t, w.Body.String(), `"ctx_id":"applicant-1"`)
	})

	t.Run("Should accept a bearer header when no cookie is present", func(t *testing.T) {
		r, tokens := setupAuthRouter(t, time.Hour)

		tok, err := tokens.Issue("applicant-1")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
