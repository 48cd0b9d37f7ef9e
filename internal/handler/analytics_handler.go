package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/middleware"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/pkg/response"
)

// AnalyticsHandler handles analytics and points HTTP requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// ProductAnalytics summarizes a product's price history
// GET /api/analytics/product/:product_id
func (h *AnalyticsHandler) ProductAnalytics(c *gin.Context) {
	result, err := h.analyticsService.ProductAnalytics(c.Request.Context(),
		c.Param("product_id"), c.Query("supermarket_id"), queryInt(c, "limit", 100))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Compare lists each supermarket's latest price, cheapest first
// GET /api/analytics/compare/:product_id
func (h *AnalyticsHandler) Compare(c *gin.Context) {
	result, err := h.analyticsService.Compare(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats returns platform totals
// GET /api/analytics/stats
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	result, err := h.analyticsService.Stats(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Leaderboard returns the top contributors
// GET /api/leaderboard
func (h *AnalyticsHandler) Leaderboard(c *gin.Context) {
	result, err := h.analyticsService.Leaderboard(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MyPoints returns the caller's balance, rank and history
// GET /api/my-points
func (h *AnalyticsHandler) MyPoints(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.analyticsService.MyPoints(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
