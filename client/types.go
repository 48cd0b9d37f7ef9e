package client

import "time"

// User is the server's public view of an account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Picture   *string   `json:"picture"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by every operation that establishes a
// session.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// SellableProduct is a (product, brand, supermarket) availability row.
type SellableProduct struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	BrandID         string `json:"brand_id"`
	SupermarketID   string `json:"supermarket_id"`
	ProductName     string `json:"product_name"`
	BrandName       string `json:"brand_name"`
	SupermarketName string `json:"supermarket_name"`
}

// SellableProductUnit is a unit option valid for one sellable product.
type SellableProductUnit struct {
	ID                string `json:"id"`
	SellableProductID string `json:"sellable_product_id"`
	UnitID            string `json:"unit_id"`
	UnitName          string `json:"unit_name"`
	UnitAbbreviation  string `json:"unit_abbreviation"`
}

// ListItemInput is one item in a shopping list write.
type ListItemInput struct {
	SellableProductID string   `json:"sellable_product_id"`
	Quantity          float64  `json:"quantity"`
	UnitID            *string  `json:"unit_id"`
	Price             *float64 `json:"price"`
	Purchased         bool     `json:"purchased"`
}

// ListItem is one item in a shopping list read.
type ListItem struct {
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

// ShoppingList is a list together with its enriched items.
type ShoppingList struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	SupermarketID   string     `json:"supermarket_id"`
	SupermarketName string     `json:"supermarket_name"`
	Items           []ListItem `json:"items"`
	TotalEstimated  float64    `json:"total_estimated"`
	TotalActual     float64    `json:"total_actual"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListUpdate is the payload for PUT /shopping-lists/{id}. Nil fields
// are left unchanged, a non-nil Items replaces the whole sequence.
type ListUpdate struct {
	Name          *string          `json:"name,omitempty"`
	SupermarketID *string          `json:"supermarket_id,omitempty"`
	Items         *[]ListItemInput `json:"items,omitempty"`
}

// UnreadCount is the unread-notification counter.
type UnreadCount struct {
	Count int `json:"count"`
}
