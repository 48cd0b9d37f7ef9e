package domain

import "time"

// ShoppingList is a user's list scoped to a single supermarket
type ShoppingList struct {
	ID            string
	UserID        string
	Name          string
	SupermarketID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ShoppingListItem is one entry of a shopping list. Position keeps
// the user's ordering stable across full-list updates. Price is the
// actual paid price and stays nil until the user fills it in.
type ShoppingListItem struct {
	ID                string
	ListID            string
	Position          int
	SellableProductID string
	Quantity          float64
	UnitID            *string
	Price             *float64
	Purchased         bool
}
