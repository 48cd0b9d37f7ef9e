package repository

import (
	"context"

	"github.com/pricehive/pricehive/internal/domain"
)

// ShoppingListRow is a list joined with its supermarket name
type ShoppingListRow struct {
	domain.ShoppingList
	SupermarketName string
}

// ShoppingListItemRow is a list item joined with product display names
type ShoppingListItemRow struct {
	domain.ShoppingListItem
	ProductName string
	BrandName   string
}

// ShoppingListRepository defines data access for shopping lists.
// Items are always written as a full replacement of the list's item
// array, keeping client order via the position column.
type ShoppingListRepository interface {
	Create(ctx context.Context, list *domain.ShoppingList, items []domain.ShoppingListItem) error
	// GetByID returns nil when the list does not exist or belongs to
	// a different user.
	GetByID(ctx context.Context, id, userID string) (*ShoppingListRow, error)
	ListByUser(ctx context.Context, userID string) ([]ShoppingListRow, error)
	Items(ctx context.Context, listID string) ([]ShoppingListItemRow, error)
	// Update writes the list row and, when replaceItems is set,
	// replaces all items in the same transaction.
	Update(ctx context.Context, list *domain.ShoppingList, items []domain.ShoppingListItem, replaceItems bool) error
	Delete(ctx context.Context, id, userID string) (bool, error)
	MarkPurchased(ctx context.Context, listID, itemID string, price *float64) (bool, error)
}
