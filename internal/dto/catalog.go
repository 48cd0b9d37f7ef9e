package dto

import "time"

// NameRequest covers the simple reference entities that only carry a
// name (categories, brands, supermarkets).
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type BrandResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type SupermarketResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UnitRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation"`
}

type UnitResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type ProductRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID string `json:"category_id" binding:"required,uuid"`
}

type ProductResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// ProductSearchResponse is a search hit decorated with the latest
// known price across the product's sellable variants.
type ProductSearchResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CategoryID   string   `json:"category_id"`
	CategoryName string   `json:"category_name"`
	LatestPrice  *float64 `json:"latest_price"`
}

type SellableProductRequest struct {
	ProductID     string `json:"product_id" binding:"required,uuid"`
	BrandID       string `json:"brand_id" binding:"required,uuid"`
	SupermarketID string `json:"supermarket_id" binding:"required,uuid"`
}

// SellableProductResponse includes the joined display names the UI
// needs and, on create, an optional brand-catalog warning.
type SellableProductResponse struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	BrandID         string  `json:"brand_id"`
	SupermarketID   string  `json:"supermarket_id"`
	ProductName     string  `json:"product_name"`
	BrandName       string  `json:"brand_name"`
	SupermarketName string  `json:"supermarket_name"`
	Warning         *string `json:"warning,omitempty"`
}

type ProductUnitRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	UnitID    string `json:"unit_id" binding:"required,uuid"`
}

type SellableProductUnitRequest struct {
	SellableProductID string `json:"sellable_product_id" binding:"required,uuid"`
	UnitID            string `json:"unit_id" binding:"required,uuid"`
}

type SellableProductUnitResponse struct {
	ID                string `json:"id"`
	SellableProductID string `json:"sellable_product_id"`
	UnitID            string `json:"unit_id"`
	UnitName          string `json:"unit_name"`
	UnitAbbreviation  string `json:"unit_abbreviation"`
}

type BrandCatalogRequest struct {
	BrandID   string `json:"brand_id" binding:"required,uuid"`
	ProductID string `json:"product_id" binding:"required,uuid"`
	Status    string `json:"status" binding:"omitempty,oneof=active planned discontinued"`
}

type BrandCatalogResponse struct {
	ID          string `json:"id"`
	BrandID     string `json:"brand_id"`
	ProductID   string `json:"product_id"`
	BrandName   string `json:"brand_name"`
	ProductName string `json:"product_name"`
	Status      string `json:"status"`
}
