package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/middleware"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/pkg/response"
)

// PriceHandler handles price reporting HTTP requests
type PriceHandler struct {
	priceService service.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// Create records a price report
// POST /api/prices
func (h *PriceHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.PriceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.priceService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List returns recent price reports
// GET /api/prices
func (h *PriceHandler) List(c *gin.Context) {
	result, err := h.priceService.List(c.Request.Context(),
		c.Query("sellable_product_id"), queryInt(c, "limit", 50))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest returns the newest price for a product
// GET /api/prices/latest/:product_id
func (h *PriceHandler) Latest(c *gin.Context) {
	result, err := h.priceService.Latest(c.Request.Context(),
		c.Param("product_id"), c.Query("supermarket_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
