package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-internship-backend/internal/delivery/http/response"
	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/audit"
	"go-internship-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the HTTP-only cookie that carries the session token.
const SessionCookieName = "session_token"

// unauthorizedMsg is deliberately identical for missing, malformed, and
// expired tokens so responses do not reveal which check failed.
const unauthorizedMsg = "Authentication failed"

// AuthMiddleware is the sole authorization boundary. It extracts the
// session token from the cookie (or an Authorization: Bearer header),
// verifies it, and attaches the applicant identity to both the gin context
// and the request context. Every protected route sits behind it.
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// 1. Prefer the session cookie
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			tokenString = cookie
		} else if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			// 2. Fall back to a bearer header for non-browser clients
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, unauthorizedMsg, nil)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			requestID, _ := c.Get("RequestID")
			reqIDStr, _ := requestID.(string)
			audit.Default().LogTokenRejected(c.Request.Context(), c.ClientIP(), reqIDStr, err)

			response.Error(c, http.StatusUnauthorized, unauthorizedMsg, nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyApplicantID), claims.ApplicantID)

		// Usecases read the identity from the request context, so attach it
		// there too, not just to the gin context.
		ctx := context.WithValue(c.Request.Context(), domain.KeyApplicantID, claims.ApplicantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
