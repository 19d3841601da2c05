package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message string `json:"message"`
}

// statuses maps sentinels to HTTP codes; the first match wins. Generic
// sentinels only name a category, so their text is dropped from the message
// when a detail follows.
var statuses = []struct {
	err     error
	status  int
	generic bool
}{
	{common.ErrorValidation, http.StatusBadRequest, true},
	{common.ErrTooManyImages, http.StatusBadRequest, false},
	{common.ErrorUnauthorized, http.StatusUnauthorized, true},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, false},
	{common.ErrInvalidToken, http.StatusUnauthorized, false},
	{common.ErrTokenExpired, http.StatusUnauthorized, false},
	{common.ErrorForbidden, http.StatusForbidden, true},
	{common.ErrorNotFound, http.StatusNotFound, true},
	{common.ErrorAlreadyExists, http.StatusConflict, true},
	{common.ErrorConflict, http.StatusConflict, true},
	{common.ErrCarNotAvailable, http.StatusConflict, false},
	{common.ErrInvalidStatusTransition, http.StatusConflict, false},
	{common.ErrCheckoutInProgress, http.StatusConflict, false},
}

// classify returns the HTTP status for err and the message safe to show to
// the caller.
func classify(err error) (int, string) {
	for _, s := range statuses {
		if !errors.Is(err, s.err) {
			continue
		}
		msg := err.Error()
		if detail, ok := strings.CutPrefix(msg, s.err.Error()+": "); ok && detail != "" {
			if s.generic {
				return s.status, detail
			}
			return s.status, msg
		}
		// anything not shaped "sentinel: detail" may carry internal context
		return s.status, s.err.Error()
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error()
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, errorBody{Message: msg})
}

func abortMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorBody{Message: msg})
}

// bindError turns a gin binding failure into a validation error with a
// readable message.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", common.ErrorValidation, field)
	case "email":
		return fmt.Errorf("%w: %s must be a valid email", common.ErrorValidation, field)
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", common.ErrorValidation, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", common.ErrorValidation, field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
