package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/pkg/response"
)

// CatalogHandler handles admin catalog management plus the public
// read-only catalog endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ---- categories ----

// POST /api/admin/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/categories and GET /api/public/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	result, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PUT /api/admin/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalogService.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Category updated")
}

// DELETE /api/admin/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Category deleted")
}

// ---- brands ----

// POST /api/admin/brands
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.catalogService.CreateBrand(c.Request.Context(), req.Name)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/brands
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	result, err := h.catalogService.ListBrands(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PUT /api/admin/brands/:id
func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalogService.UpdateBrand(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Brand updated")
}

// DELETE /api/admin/brands/:id
func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	if err := h.catalogService.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Brand deleted")
}

// ---- supermarkets ----

// POST /api/admin/supermarkets
func (h *CatalogHandler) CreateSupermarket(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.catalogService.CreateSupermarket(c.Request.Context(), req.Name)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/supermarkets and GET /api/public/supermarkets
func (h *CatalogHandler) ListSupermarkets(c *gin.Context) {
	result, err := h.catalogService.ListSupermarkets(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PUT /api/admin/supermarkets/:id
func (h *CatalogHandler) UpdateSupermarket(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalogService.UpdateSupermarket(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Supermarket updated")
}

// DELETE /api/admin/supermarkets/:id
func (h *CatalogHandler) DeleteSupermarket(c *gin.Context) {
	if err := h.catalogService.DeleteSupermarket(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Supermarket deleted")
}

// ---- units ----

// POST /api/admin/units
func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req dto.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.catalogService.CreateUnit(c.Request.Context(), &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/units
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	result, err := h.catalogService.ListUnits(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PUT /api/admin/units/:id
func (h *CatalogHandler) UpdateUnit(c *gin.Context) {
	var req dto.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalogService.UpdateUnit(c.Request.Context(), c.Param("id"), &req); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Unit updated")
}

// DELETE /api/admin/units/:id
func (h *CatalogHandler) DeleteUnit(c *gin.Context) {
	if err := h.catalogService.DeleteUnit(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Unit deleted")
}

// ---- products ----

// POST /api/admin/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/products and GET /api/public/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	result, err := h.catalogService.ListProducts(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PUT /api/admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), &req); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Product updated")
}

// DELETE /api/admin/products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Product deleted")
}

// GET /api/search/products
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	result, err := h.catalogService.SearchProducts(c.Request.Context(),
		c.Query("q"), c.Query("category_id"), c.Query("brand_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ---- product units ----

// POST /api/admin/product-units
func (h *CatalogHandler) CreateProductUnit(c *gin.Context) {
	var req dto.ProductUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalogService.CreateProductUnit(c.Request.Context(), &req); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Product unit linked")
}

// GET /api/admin/product-units/:product_id
func (h *CatalogHandler) ListProductUnits(c *gin.Context) {
	result, err := h.catalogService.ListProductUnits(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ---- sellable products ----

// POST /api/admin/sellable-products
func (h *CatalogHandler) CreateSellableProduct(c *gin.Context) {
	var req dto.SellableProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.catalogService.CreateSellableProduct(c.Request.Context(), &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/sellable-products
func (h *CatalogHandler) ListSellableProducts(c *gin.Context) {
	result, err := h.catalogService.ListSellableProducts(c.Request.Context(),
		c.Query("supermarket_id"), c.Query("product_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DELETE /api/admin/sellable-products/:id
func (h *CatalogHandler) DeleteSellableProduct(c *gin.Context) {
	if err := h.catalogService.DeleteSellableProduct(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Sellable product deleted")
}

// ---- sellable product units ----

// POST /api/admin/sellable-product-units
func (h *CatalogHandler) CreateSellableProductUnit(c *gin.Context) {
	var req dto.SellableProductUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalogService.CreateSellableProductUnit(c.Request.Context(), &req); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Sellable product unit linked")
}

// GET /api/admin/sellable-product-units/:sellable_product_id
func (h *CatalogHandler) ListSellableProductUnits(c *gin.Context) {
	result, err := h.catalogService.ListSellableProductUnits(c.Request.Context(), c.Param("sellable_product_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DELETE /api/admin/sellable-product-units/:id
func (h *CatalogHandler) DeleteSellableProductUnit(c *gin.Context) {
	if err := h.catalogService.DeleteSellableProductUnit(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Message(c, "Sellable product unit deleted")
}

// ---- brand catalog ----

// POST /api/admin/brand-catalog
func (h *CatalogHandler) UpsertBrandCatalogEntry(c *gin.Context) {
	var req dto.BrandCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.catalogService.UpsertBrandCatalogEntry(c.Request.Context(), &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/brand-catalog
func (h *CatalogHandler) ListBrandCatalog(c *gin.Context) {
	result, err := h.catalogService.ListBrandCatalog(c.Request.Context(), c.Query("brand_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
