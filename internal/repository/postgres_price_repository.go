package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pricehive/pricehive/internal/domain"
)

// PostgresPriceRepository implements PriceRepository using PostgreSQL
type PostgresPriceRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPriceRepository creates a new PostgresPriceRepository
func NewPostgresPriceRepository(pool *pgxpool.Pool) *PostgresPriceRepository {
	return &PostgresPriceRepository{pool: pool}
}

// Create inserts a price report
func (r *PostgresPriceRepository) Create(ctx context.Context, p *domain.Price) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO prices (id, sellable_product_id, price, quantity, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.SellableProductID, p.Price, p.Quantity, p.UserID, p.CreatedAt,
	)
	return err
}

const priceRowSelect = `
	SELECT pr.id, pr.sellable_product_id, pr.price, pr.quantity, pr.user_id, pr.created_at,
	       p.name, b.name, s.name, u.name
	FROM prices pr
	JOIN sellable_products sp ON sp.id = pr.sellable_product_id
	JOIN products p ON p.id = sp.product_id
	JOIN brands b ON b.id = sp.brand_id
	JOIN supermarkets s ON s.id = sp.supermarket_id
	LEFT JOIN users u ON u.id = pr.user_id
`

// List returns recent reports, newest first
func (r *PostgresPriceRepository) List(ctx context.Context, sellableProductID string, limit int) ([]PriceRow, error) {
	query := priceRowSelect + `
		WHERE ($1 = '' OR pr.sellable_product_id::text = $1)
		ORDER BY pr.created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, sellableProductID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriceRow
	for rows.Next() {
		var row PriceRow
		if err := rows.Scan(
			&row.ID, &row.SellableProductID, &row.Price.Price, &row.Quantity, &row.UserID, &row.CreatedAt,
			&row.ProductName, &row.BrandName, &row.SupermarketName, &row.ReporterName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LatestBySellable returns the most recent report for one sellable
// product, nil when none exists.
func (r *PostgresPriceRepository) LatestBySellable(ctx context.Context, sellableProductID string) (*domain.Price, error) {
	p := &domain.Price{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, sellable_product_id, price, quantity, user_id, created_at
		 FROM prices WHERE sellable_product_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		sellableProductID,
	).Scan(&p.ID, &p.SellableProductID, &p.Price, &p.Quantity, &p.UserID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// LatestForSellables returns the most recent report per sellable
// product. IDs with no reports are absent from the map.
func (r *PostgresPriceRepository) LatestForSellables(ctx context.Context, ids []string) (map[string]*domain.Price, error) {
	out := make(map[string]*domain.Price, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
		SELECT DISTINCT ON (sellable_product_id)
		       id, sellable_product_id, price, quantity, user_id, created_at
		FROM prices
		WHERE sellable_product_id = ANY($1)
		ORDER BY sellable_product_id, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p := &domain.Price{}
		if err := rows.Scan(&p.ID, &p.SellableProductID, &p.Price, &p.Quantity, &p.UserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out[p.SellableProductID] = p
	}
	return out, rows.Err()
}

// LatestForProduct returns the newest report across a generic
// product's sellable variants, optionally narrowed to one supermarket.
func (r *PostgresPriceRepository) LatestForProduct(ctx context.Context, productID, supermarketID string) (*domain.Price, error) {
	p := &domain.Price{}
	err := r.pool.QueryRow(ctx,
		`SELECT pr.id, pr.sellable_product_id, pr.price, pr.quantity, pr.user_id, pr.created_at
		 FROM prices pr
		 JOIN sellable_products sp ON sp.id = pr.sellable_product_id
		 WHERE sp.product_id = $1
		   AND ($2 = '' OR sp.supermarket_id::text = $2)
		 ORDER BY pr.created_at DESC LIMIT 1`,
		productID, supermarketID,
	).Scan(&p.ID, &p.SellableProductID, &p.Price, &p.Quantity, &p.UserID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// LatestForProducts returns the newest report per generic product.
// IDs with no reports are absent from the map.
func (r *PostgresPriceRepository) LatestForProducts(ctx context.Context, productIDs []string) (map[string]*domain.Price, error) {
	out := make(map[string]*domain.Price, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT DISTINCT ON (sp.product_id)
		       sp.product_id, pr.id, pr.sellable_product_id, pr.price, pr.quantity, pr.user_id, pr.created_at
		FROM prices pr
		JOIN sellable_products sp ON sp.id = pr.sellable_product_id
		WHERE sp.product_id = ANY($1)
		ORDER BY sp.product_id, pr.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		p := &domain.Price{}
		if err := rows.Scan(&productID, &p.ID, &p.SellableProductID, &p.Price, &p.Quantity, &p.UserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out[productID] = p
	}
	return out, rows.Err()
}

// HistoryForProduct returns reports across a generic product's
// sellable variants, oldest first, optionally narrowed to one
// supermarket.
func (r *PostgresPriceRepository) HistoryForProduct(ctx context.Context, productID, supermarketID string, limit int) ([]domain.Price, error) {
	query := `
		SELECT pr.id, pr.sellable_product_id, pr.price, pr.quantity, pr.user_id, pr.created_at
		FROM prices pr
		JOIN sellable_products sp ON sp.id = pr.sellable_product_id
		WHERE sp.product_id = $1
		  AND ($2 = '' OR sp.supermarket_id::text = $2)
		ORDER BY pr.created_at ASC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, productID, supermarketID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Price
	for rows.Next() {
		var p domain.Price
		if err := rows.Scan(&p.ID, &p.SellableProductID, &p.Price, &p.Quantity, &p.UserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HistoryBySellable returns reports oldest first
func (r *PostgresPriceRepository) HistoryBySellable(ctx context.Context, sellableProductID string, limit int) ([]domain.Price, error) {
	query := `
		SELECT id, sellable_product_id, price, quantity, user_id, created_at
		FROM prices
		WHERE sellable_product_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, sellableProductID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Price
	for rows.Next() {
		var p domain.Price
		if err := rows.Scan(&p.ID, &p.SellableProductID, &p.Price, &p.Quantity, &p.UserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LatestPerSupermarket returns each supermarket's newest report for
// any sellable product of the given generic product.
func (r *PostgresPriceRepository) LatestPerSupermarket(ctx context.Context, productID string) ([]ComparisonRow, error) {
	query := `
		SELECT DISTINCT ON (sp.supermarket_id)
		       pr.id, pr.sellable_product_id, pr.price, pr.quantity, pr.user_id, pr.created_at,
		       sp.supermarket_id, s.name, b.name
		FROM prices pr
		JOIN sellable_products sp ON sp.id = pr.sellable_product_id
		JOIN supermarkets s ON s.id = sp.supermarket_id
		JOIN brands b ON b.id = sp.brand_id
		WHERE sp.product_id = $1
		ORDER BY sp.supermarket_id, pr.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ComparisonRow
	for rows.Next() {
		var row ComparisonRow
		if err := rows.Scan(
			&row.ID, &row.SellableProductID, &row.Price.Price, &row.Quantity, &row.UserID, &row.CreatedAt,
			&row.SupermarketID, &row.SupermarketName, &row.BrandName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the total number of price reports
func (r *PostgresPriceRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prices`).Scan(&count)
	return count, err
}
