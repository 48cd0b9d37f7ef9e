package domain

import "time"

// Price is a crowd-reported price observation for a sellable product.
// Quantity is the pack size the price was observed for, so unit price
// is Price / Quantity.
type Price struct {
	ID                string
	SellableProductID string
	Price             float64
	Quantity          float64
	UserID            *string
	CreatedAt         time.Time
}

// UnitPrice returns the price per single unit
func (p *Price) UnitPrice() float64 {
	if p.Quantity <= 0 {
		return p.Price
	}
	return p.Price / p.Quantity
}
