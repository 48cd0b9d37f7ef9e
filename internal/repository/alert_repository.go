package repository

import (
	"context"

	"github.com/pricehive/pricehive/internal/domain"
)

// AlertRow is an alert joined with display names
type AlertRow struct {
	domain.Alert
	ProductName     string
	SupermarketName *string
}

// AlertRepository defines data access for price alerts
type AlertRepository interface {
	Create(ctx context.Context, a *domain.Alert) error
	ListByUser(ctx context.Context, userID string) ([]AlertRow, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	// MatchingForProduct returns untriggered alerts watching the
	// product, either globally or scoped to the given supermarket.
	MatchingForProduct(ctx context.Context, productID, supermarketID string) ([]domain.Alert, error)
	MarkTriggered(ctx context.Context, id string) error
}
