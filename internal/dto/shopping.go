package dto

import "time"

// ShoppingListItemInput is one item as sent by clients. Items are
// always sent as the full list; order in the array is the order kept.
type ShoppingListItemInput struct {
	SellableProductID string   `json:"sellable_product_id" binding:"required,uuid"`
	Quantity          float64  `json:"quantity" binding:"omitempty,gt=0"`
	UnitID            *string  `json:"unit_id" binding:"omitempty,uuid"`
	Price             *float64 `json:"price"`
	Purchased         bool     `json:"purchased"`
}

type ShoppingListCreateRequest struct {
	Name          string                  `json:"name" binding:"required"`
	SupermarketID string                  `json:"supermarket_id" binding:"required,uuid"`
	Items         []ShoppingListItemInput `json:"items"`
}

// ShoppingListUpdateRequest updates name and/or replaces the item
// array. A nil Items leaves items untouched; an empty array clears
// them.
type ShoppingListUpdateRequest struct {
	Name          *string                  `json:"name"`
	SupermarketID *string                  `json:"supermarket_id" binding:"omitempty,uuid"`
	Items         *[]ShoppingListItemInput `json:"items"`
}

type ShoppingListItemResponse struct {
	ID                string   `json:"id"`
	SellableProductID string   `json:"sellable_product_id"`
	Quantity          float64  `json:"quantity"`
	UnitID            *string  `json:"unit_id"`
	Price             *float64 `json:"price"`
	Purchased         bool     `json:"purchased"`
	ProductName       string   `json:"product_name"`
	BrandName         string   `json:"brand_name"`
	EstimatedPrice    *float64 `json:"estimated_price"`
}

type ShoppingListResponse struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	SupermarketID   string                     `json:"supermarket_id"`
	SupermarketName string                     `json:"supermarket_name"`
	Items           []ShoppingListItemResponse `json:"items"`
	TotalEstimated  float64                    `json:"total_estimated"`
	TotalActual     float64                    `json:"total_actual"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// SubmitPricesResponse acknowledges turning purchased items with
// actual prices into price reports.
type SubmitPricesResponse struct {
	Message         string `json:"message"`
	PricesSubmitted int    `json:"prices_submitted"`
	PointsEarned    int    `json:"points_earned"`
}
