package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/middleware"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/pkg/response"
)

// ShoppingListHandler handles shopping list HTTP requests
type ShoppingListHandler struct {
	listService service.ShoppingListService
}

// NewShoppingListHandler creates a new ShoppingListHandler
func NewShoppingListHandler(listService service.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{listService: listService}
}

// Create creates a shopping list
// POST /api/shopping-lists
func (h *ShoppingListHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.ShoppingListCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.listService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List returns the caller's shopping lists
// GET /api/shopping-lists
func (h *ShoppingListHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.listService.List(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one list
// GET /api/shopping-lists/:id
func (h *ShoppingListHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.listService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update renames a list and/or replaces its items
// PUT /api/shopping-lists/:id
func (h *ShoppingListHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.ShoppingListUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.listService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes a list
// DELETE /api/shopping-lists/:id
func (h *ShoppingListHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.listService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Shopping list deleted")
}

// SubmitPrices turns purchased items into price reports
// POST /api/shopping-lists/:id/submit-prices
func (h *ShoppingListHandler) SubmitPrices(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.listService.SubmitPrices(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
