package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	claimsKey       = "claims"
)

// requestLogger writes one line per request and echoes a request id.
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		h.logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// authRequired accepts "Authorization: Bearer <token>" and stores the token
// claims in the context.
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortMessage(c, http.StatusUnauthorized, "not authorized, no token")
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(token), h.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				abortMessage(c, http.StatusUnauthorized, "token expired")
				return
			}
			abortMessage(c, http.StatusUnauthorized, "not authorized, token failed")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// adminOnly must run after authRequired.
func (h *Handler) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cl := claimsFrom(c); cl == nil || !cl.IsAdmin {
			abortMessage(c, http.StatusForbidden, "not authorized as an admin")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	cl, _ := v.(*auth.Claims)
	return cl
}
