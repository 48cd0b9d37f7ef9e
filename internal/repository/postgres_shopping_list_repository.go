package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pricehive/pricehive/internal/domain"
)

// PostgresShoppingListRepository implements ShoppingListRepository
// using PostgreSQL.
type PostgresShoppingListRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresShoppingListRepository creates a new PostgresShoppingListRepository
func NewPostgresShoppingListRepository(pool *pgxpool.Pool) *PostgresShoppingListRepository {
	return &PostgresShoppingListRepository{pool: pool}
}

// Create inserts a list and its items in one transaction
func (r *PostgresShoppingListRepository) Create(ctx context.Context, list *domain.ShoppingList, items []domain.ShoppingListItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO shopping_lists (id, user_id, name, supermarket_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		list.ID, list.UserID, list.Name, list.SupermarketID, list.CreatedAt, list.UpdatedAt,
	); err != nil {
		return err
	}

	if err := insertItems(ctx, tx, list.ID, items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, listID string, items []domain.ShoppingListItem) error {
	for _, item := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO shopping_list_items
			 (id, list_id, position, sellable_product_id, quantity, unit_id, price, purchased)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, listID, item.Position, item.SellableProductID,
			item.Quantity, item.UnitID, item.Price, item.Purchased,
		); err != nil {
			return err
		}
	}
	return nil
}

const listRowSelect = `
	SELECT l.id, l.user_id, l.name, l.supermarket_id, l.created_at, l.updated_at, s.name
	FROM shopping_lists l
	JOIN supermarkets s ON s.id = l.supermarket_id
`

// GetByID retrieves a list owned by the given user
func (r *PostgresShoppingListRepository) GetByID(ctx context.Context, id, userID string) (*ShoppingListRow, error) {
	row := &ShoppingListRow{}
	err := r.pool.QueryRow(ctx,
		listRowSelect+` WHERE l.id = $1 AND l.user_id = $2`,
		id, userID,
	).Scan(&row.ID, &row.UserID, &row.Name, &row.SupermarketID,
		&row.CreatedAt, &row.UpdatedAt, &row.SupermarketName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// ListByUser returns the user's lists, newest first
func (r *PostgresShoppingListRepository) ListByUser(ctx context.Context, userID string) ([]ShoppingListRow, error) {
	rows, err := r.pool.Query(ctx,
		listRowSelect+` WHERE l.user_id = $1 ORDER BY l.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShoppingListRow
	for rows.Next() {
		var row ShoppingListRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Name, &row.SupermarketID,
			&row.CreatedAt, &row.UpdatedAt, &row.SupermarketName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Items returns a list's items in stored position order
func (r *PostgresShoppingListRepository) Items(ctx context.Context, listID string) ([]ShoppingListItemRow, error) {
	query := `
		SELECT i.id, i.list_id, i.position, i.sellable_product_id, i.quantity,
		       i.unit_id, i.price, i.purchased, p.name, b.name
		FROM shopping_list_items i
		JOIN sellable_products sp ON sp.id = i.sellable_product_id
		JOIN products p ON p.id = sp.product_id
		JOIN brands b ON b.id = sp.brand_id
		WHERE i.list_id = $1
		ORDER BY i.position
	`
	rows, err := r.pool.Query(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShoppingListItemRow
	for rows.Next() {
		var row ShoppingListItemRow
		if err := rows.Scan(
			&row.ID, &row.ListID, &row.Position, &row.SellableProductID, &row.Quantity,
			&row.UnitID, &row.Price, &row.Purchased, &row.ProductName, &row.BrandName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Update writes the list row and optionally replaces all items
func (r *PostgresShoppingListRepository) Update(ctx context.Context, list *domain.ShoppingList, items []domain.ShoppingListItem, replaceItems bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE shopping_lists SET name = $2, supermarket_id = $3, updated_at = $4 WHERE id = $1`,
		list.ID, list.Name, list.SupermarketID, list.UpdatedAt,
	); err != nil {
		return err
	}

	if replaceItems {
		if _, err := tx.Exec(ctx,
			`DELETE FROM shopping_list_items WHERE list_id = $1`, list.ID,
		); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, list.ID, items); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes a list owned by the given user
func (r *PostgresShoppingListRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM shopping_lists WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkPurchased flags one item as bought, optionally recording the
// actual price paid.
func (r *PostgresShoppingListRepository) MarkPurchased(ctx context.Context, listID, itemID string, price *float64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE shopping_list_items
		 SET purchased = TRUE, price = COALESCE($3, price)
		 WHERE id = $1 AND list_id = $2`,
		itemID, listID, price,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
