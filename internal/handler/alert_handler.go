package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/middleware"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/pkg/response"
)

// AlertHandler handles price alert and notification HTTP requests
type AlertHandler struct {
	alertService service.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// Create registers a price alert
// POST /api/alerts
func (h *AlertHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.AlertCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.alertService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List returns the caller's alerts
// GET /api/alerts
func (h *AlertHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.alertService.List(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes an alert
// DELETE /api/alerts/:id
func (h *AlertHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.alertService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Alert deleted")
}

// Notifications returns the caller's notifications
// GET /api/notifications
func (h *AlertHandler) Notifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.alertService.Notifications(c.Request.Context(), userID, queryInt(c, "limit", 50))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UnreadCount returns the caller's unread notification count
// GET /api/notifications/unread-count
func (h *AlertHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	count, err := h.alertService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkRead flags one notification as read
// PUT /api/notifications/:id/read
func (h *AlertHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.alertService.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Notification marked read")
}

// MarkAllRead flags all the caller's notifications as read
// PUT /api/notifications/read-all
func (h *AlertHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.alertService.MarkAllRead(c.Request.Context(), userID); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "All notifications marked read")
}
