package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/pkg/response"
)

// renderError maps service errors onto the API error contract
func renderError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		response.NotFound(c, capitalize(err.Error()))
	case errors.Is(err, domain.ErrDuplicateEntry),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidReaction),
		errors.Is(err, domain.ErrInvalidAlertType),
		errors.Is(err, domain.ErrTargetRequired):
		response.BadRequest(c, capitalize(err.Error()))
	case errors.Is(err, domain.ErrNotOwner):
		response.Forbidden(c, capitalize(err.Error()))
	default:
		response.InternalError(c)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// queryInt parses an integer query parameter, falling back on the
// default when absent or malformed.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
