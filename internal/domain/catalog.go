package domain

import "time"

// Category groups generic products (e.g. "Dairy")
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Brand is a product manufacturer or label
type Brand struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Supermarket is a store chain prices are reported for
type Supermarket struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Unit is a measure products are sold in (e.g. "kg", "liter")
type Unit struct {
	ID           string
	Name         string
	Abbreviation string
	CreatedAt    time.Time
}

// Product is a generic product independent of brand and store
type Product struct {
	ID         string
	Name       string
	CategoryID string
	CreatedAt  time.Time
}

// SellableProduct is a concrete offering: one product of one brand
// sold at one supermarket. Prices and shopping list items reference
// sellable products, never the generic product directly.
type SellableProduct struct {
	ID            string
	ProductID     string
	BrandID       string
	SupermarketID string
	CreatedAt     time.Time
}

// ProductUnit links a generic product to a unit it can be measured in
type ProductUnit struct {
	ID        string
	ProductID string
	UnitID    string
}

// SellableProductUnit links a sellable product to a unit it is sold in
type SellableProductUnit struct {
	ID                string
	SellableProductID string
	UnitID            string
}

// CatalogStatus describes whether a brand actually produces a product
type CatalogStatus string

const (
	CatalogActive       CatalogStatus = "active"
	CatalogPlanned      CatalogStatus = "planned"
	CatalogDiscontinued CatalogStatus = "discontinued"
)

// BrandCatalogEntry records which products a brand produces. Used to
// warn admins when they register an offering the brand does not list.
type BrandCatalogEntry struct {
	ID        string
	BrandID   string
	ProductID string
	Status    CatalogStatus
	CreatedAt time.Time
}
