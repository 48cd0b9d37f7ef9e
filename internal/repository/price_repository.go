package repository

import (
	"context"

	"github.com/pricehive/pricehive/internal/domain"
)

// PriceRow is a price joined with display names
type PriceRow struct {
	domain.Price
	ProductName     string
	BrandName       string
	SupermarketName string
	ReporterName    *string
}

// ComparisonRow is the latest price one supermarket has for a
// generic product, through whichever brand was reported last.
type ComparisonRow struct {
	domain.Price
	SupermarketID   string
	SupermarketName string
	BrandName       string
}

// PriceRepository defines data access for price reports
type PriceRepository interface {
	Create(ctx context.Context, p *domain.Price) error
	// List returns recent reports, newest first, optionally filtered
	// by sellable product.
	List(ctx context.Context, sellableProductID string, limit int) ([]PriceRow, error)
	LatestBySellable(ctx context.Context, sellableProductID string) (*domain.Price, error)
	// LatestForSellables batches LatestBySellable for list rendering
	LatestForSellables(ctx context.Context, ids []string) (map[string]*domain.Price, error)
	// LatestForProduct returns the newest report across a product's
	// sellable variants, optionally narrowed to one supermarket.
	LatestForProduct(ctx context.Context, productID, supermarketID string) (*domain.Price, error)
	// LatestForProducts batches LatestForProduct for search results
	LatestForProducts(ctx context.Context, productIDs []string) (map[string]*domain.Price, error)
	// HistoryBySellable returns reports oldest first, for charts
	HistoryBySellable(ctx context.Context, sellableProductID string, limit int) ([]domain.Price, error)
	// HistoryForProduct is HistoryBySellable across all of a product's
	// sellable variants.
	HistoryForProduct(ctx context.Context, productID, supermarketID string, limit int) ([]domain.Price, error)
	// LatestPerSupermarket returns, for a generic product, each
	// supermarket's most recent report.
	LatestPerSupermarket(ctx context.Context, productID string) ([]ComparisonRow, error)
	Count(ctx context.Context) (int, error)
}
