package dto

import "time"

// PriceCreateRequest reports an observed price. Quantity defaults to
// 1 when omitted.
type PriceCreateRequest struct {
	SellableProductID string  `json:"sellable_product_id" binding:"required,uuid"`
	Price             float64 `json:"price" binding:"required,gt=0"`
	Quantity          float64 `json:"quantity" binding:"omitempty,gt=0"`
}

type PriceResponse struct {
	ID                string    `json:"id"`
	SellableProductID string    `json:"sellable_product_id"`
	Price             float64   `json:"price"`
	Quantity          float64   `json:"quantity"`
	UnitPrice         float64   `json:"unit_price"`
	ProductName       string    `json:"product_name"`
	BrandName         string    `json:"brand_name"`
	SupermarketName   string    `json:"supermarket_name"`
	ReportedBy        *string   `json:"reported_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// LatestPriceResponse answers "what does this cost right now",
// product-wide across brand variants, optionally narrowed to one
// supermarket. Price is nil and Message set when no report exists.
type LatestPriceResponse struct {
	ProductID string     `json:"product_id"`
	Price     *float64   `json:"price"`
	Quantity  *float64   `json:"quantity"`
	UnitPrice *float64   `json:"unit_price"`
	CreatedAt *time.Time `json:"created_at"`
	Message   *string    `json:"message,omitempty"`
}
