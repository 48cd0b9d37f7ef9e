package repository

import (
	"context"

	"github.com/pricehive/pricehive/internal/domain"
)

// ProductRow is a product joined with its category name
type ProductRow struct {
	domain.Product
	CategoryName string
}

// SellableProductRow is a sellable product joined with display names
type SellableProductRow struct {
	domain.SellableProduct
	ProductName     string
	BrandName       string
	SupermarketName string
}

// SellableUnitRow is a sellable product unit joined with the unit
type SellableUnitRow struct {
	domain.SellableProductUnit
	UnitName         string
	UnitAbbreviation string
}

// BrandCatalogRow is a brand catalog entry joined with display names
type BrandCatalogRow struct {
	domain.BrandCatalogEntry
	BrandName   string
	ProductName string
}

// CatalogRepository defines data access for the product catalog:
// reference entities, generic products, sellable products and the
// brand catalog.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (bool, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	CreateBrand(ctx context.Context, b *domain.Brand) error
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	UpdateBrand(ctx context.Context, id, name string) (bool, error)
	DeleteBrand(ctx context.Context, id string) (bool, error)

	CreateSupermarket(ctx context.Context, s *domain.Supermarket) error
	ListSupermarkets(ctx context.Context) ([]domain.Supermarket, error)
	UpdateSupermarket(ctx context.Context, id, name string) (bool, error)
	DeleteSupermarket(ctx context.Context, id string) (bool, error)

	CreateUnit(ctx context.Context, u *domain.Unit) error
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	UpdateUnit(ctx context.Context, u *domain.Unit) (bool, error)
	DeleteUnit(ctx context.Context, id string) (bool, error)

	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	// ListProducts filters by category when categoryID is non-empty
	ListProducts(ctx context.Context, categoryID string) ([]ProductRow, error)
	// SearchProducts matches the query against product, brand and
	// category names, case-insensitively, with optional category and
	// brand filters.
	SearchProducts(ctx context.Context, query, categoryID, brandID string) ([]ProductRow, error)
	UpdateProduct(ctx context.Context, p *domain.Product) (bool, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	CountProducts(ctx context.Context) (int, error)

	CreateProductUnit(ctx context.Context, pu *domain.ProductUnit) error
	ListProductUnits(ctx context.Context, productID string) ([]domain.Unit, error)

	CreateSellableProduct(ctx context.Context, sp *domain.SellableProduct) error
	GetSellableProductRow(ctx context.Context, id string) (*SellableProductRow, error)
	// ListSellableProducts filters by supermarket and/or product when
	// the IDs are non-empty.
	ListSellableProducts(ctx context.Context, supermarketID, productID string) ([]SellableProductRow, error)
	DeleteSellableProduct(ctx context.Context, id string) (bool, error)

	CreateSellableProductUnit(ctx context.Context, spu *domain.SellableProductUnit) error
	ListSellableProductUnits(ctx context.Context, sellableProductID string) ([]SellableUnitRow, error)
	DeleteSellableProductUnit(ctx context.Context, id string) (bool, error)

	UpsertBrandCatalogEntry(ctx context.Context, e *domain.BrandCatalogEntry) error
	ListBrandCatalog(ctx context.Context, brandID string) ([]BrandCatalogRow, error)
	GetBrandCatalogEntry(ctx context.Context, brandID, productID string) (*domain.BrandCatalogEntry, error)
}
