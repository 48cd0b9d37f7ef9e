// Package response renders API responses. Error bodies use the
// {"detail": "..."} shape so existing API consumers keep working.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error payload for all non-2xx responses
type ErrorBody struct {
	Detail string `json:"detail"`
}

// MessageBody is the payload for operations that only acknowledge
type MessageBody struct {
	Message string `json:"message"`
}

func Error(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, detail)
}

func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

func Unauthorized(c *gin.Context, detail string) {
	Error(c, http.StatusUnauthorized, detail)
}

func Forbidden(c *gin.Context, detail string) {
	Error(c, http.StatusForbidden, detail)
}

func Conflict(c *gin.Context, detail string) {
	Error(c, http.StatusConflict, detail)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}
