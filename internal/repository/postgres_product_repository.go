package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/pricehive/pricehive/internal/domain"
)

// Product and sellable-product methods of PostgresCatalogRepository.

// CreateProduct inserts a generic product
func (r *PostgresCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, category_id, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.CategoryID, p.CreatedAt,
	)
	return err
}

// GetProduct retrieves a product by ID
func (r *PostgresCatalogRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, category_id, created_at FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListProducts returns products with category names, optionally
// filtered by category.
func (r *PostgresCatalogRepository) ListProducts(ctx context.Context, categoryID string) ([]ProductRow, error) {
	query := `
		SELECT p.id, p.name, p.category_id, p.created_at, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE ($1 = '' OR p.category_id::text = $1)
		ORDER BY p.name
	`
	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProductRows(rows)
}

// SearchProducts matches product, brand and category names
func (r *PostgresCatalogRepository) SearchProducts(ctx context.Context, query, categoryID, brandID string) ([]ProductRow, error) {
	sql := `
		SELECT DISTINCT p.id, p.name, p.category_id, p.created_at, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN sellable_products sp ON sp.product_id = p.id
		LEFT JOIN brands b ON b.id = sp.brand_id
		WHERE ($2 = '' OR p.category_id::text = $2)
		  AND ($3 = '' OR sp.brand_id::text = $3)
		  AND (p.name ILIKE '%' || $1 || '%'
		       OR c.name ILIKE '%' || $1 || '%'
		       OR b.name ILIKE '%' || $1 || '%')
		ORDER BY p.name
	`
	rows, err := r.pool.Query(ctx, sql, query, categoryID, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProductRows(rows)
}

func scanProductRows(rows pgx.Rows) ([]ProductRow, error) {
	var out []ProductRow
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt, &p.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteProduct removes a product, reporting whether it existed
// UpdateProduct rewrites a product, reporting whether it existed
func (r *PostgresCatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, category_id = $3 WHERE id = $1`,
		p.ID, p.Name, p.CategoryID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresCatalogRepository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountProducts returns the total number of products
func (r *PostgresCatalogRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// CreateProductUnit links a product to a unit
func (r *PostgresCatalogRepository) CreateProductUnit(ctx context.Context, pu *domain.ProductUnit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO product_units (id, product_id, unit_id) VALUES ($1, $2, $3)
		 ON CONFLICT (product_id, unit_id) DO NOTHING`,
		pu.ID, pu.ProductID, pu.UnitID,
	)
	return err
}

// ListProductUnits returns the units a product can be measured in
func (r *PostgresCatalogRepository) ListProductUnits(ctx context.Context, productID string) ([]domain.Unit, error) {
	query := `
		SELECT u.id, u.name, u.abbreviation, u.created_at
		FROM product_units pu
		JOIN units u ON u.id = pu.unit_id
		WHERE pu.product_id = $1
		ORDER BY u.name
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Unit
	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateSellableProduct inserts a sellable product
func (r *PostgresCatalogRepository) CreateSellableProduct(ctx context.Context, sp *domain.SellableProduct) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sellable_products (id, product_id, brand_id, supermarket_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sp.ID, sp.ProductID, sp.BrandID, sp.SupermarketID, sp.CreatedAt,
	)
	return err
}

const sellableRowSelect = `
	SELECT sp.id, sp.product_id, sp.brand_id, sp.supermarket_id, sp.created_at,
	       p.name, b.name, s.name
	FROM sellable_products sp
	JOIN products p ON p.id = sp.product_id
	JOIN brands b ON b.id = sp.brand_id
	JOIN supermarkets s ON s.id = sp.supermarket_id
`

// GetSellableProductRow retrieves a sellable product with names
func (r *PostgresCatalogRepository) GetSellableProductRow(ctx context.Context, id string) (*SellableProductRow, error) {
	row := &SellableProductRow{}
	err := r.pool.QueryRow(ctx, sellableRowSelect+` WHERE sp.id = $1`, id).Scan(
		&row.ID, &row.ProductID, &row.BrandID, &row.SupermarketID, &row.CreatedAt,
		&row.ProductName, &row.BrandName, &row.SupermarketName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// ListSellableProducts returns sellable products with names,
// optionally filtered by supermarket and/or product.
func (r *PostgresCatalogRepository) ListSellableProducts(ctx context.Context, supermarketID, productID string) ([]SellableProductRow, error) {
	query := sellableRowSelect + `
		WHERE ($1 = '' OR sp.supermarket_id::text = $1)
		  AND ($2 = '' OR sp.product_id::text = $2)
		ORDER BY p.name, b.name
	`
	rows, err := r.pool.Query(ctx, query, supermarketID, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SellableProductRow
	for rows.Next() {
		var row SellableProductRow
		if err := rows.Scan(
			&row.ID, &row.ProductID, &row.BrandID, &row.SupermarketID, &row.CreatedAt,
			&row.ProductName, &row.BrandName, &row.SupermarketName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteSellableProduct removes a sellable product, reporting whether
// it existed.
func (r *PostgresCatalogRepository) DeleteSellableProduct(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sellable_products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateSellableProductUnit links a sellable product to a unit
func (r *PostgresCatalogRepository) CreateSellableProductUnit(ctx context.Context, spu *domain.SellableProductUnit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sellable_product_units (id, sellable_product_id, unit_id) VALUES ($1, $2, $3)
		 ON CONFLICT (sellable_product_id, unit_id) DO NOTHING`,
		spu.ID, spu.SellableProductID, spu.UnitID,
	)
	return err
}

// ListSellableProductUnits returns the units for a sellable product
func (r *PostgresCatalogRepository) ListSellableProductUnits(ctx context.Context, sellableProductID string) ([]SellableUnitRow, error) {
	query := `
		SELECT spu.id, spu.sellable_product_id, spu.unit_id, u.name, u.abbreviation
		FROM sellable_product_units spu
		JOIN units u ON u.id = spu.unit_id
		WHERE spu.sellable_product_id = $1
		ORDER BY u.name
	`
	rows, err := r.pool.Query(ctx, query, sellableProductID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SellableUnitRow
	for rows.Next() {
		var row SellableUnitRow
		if err := rows.Scan(&row.ID, &row.SellableProductID, &row.UnitID, &row.UnitName, &row.UnitAbbreviation); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteSellableProductUnit removes a sellable product unit link
func (r *PostgresCatalogRepository) DeleteSellableProductUnit(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sellable_product_units WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpsertBrandCatalogEntry inserts or updates a brand catalog entry
func (r *PostgresCatalogRepository) UpsertBrandCatalogEntry(ctx context.Context, e *domain.BrandCatalogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO brand_product_catalog (id, brand_id, product_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (brand_id, product_id) DO UPDATE SET status = EXCLUDED.status`,
		e.ID, e.BrandID, e.ProductID, e.Status, e.CreatedAt,
	)
	return err
}

// ListBrandCatalog returns catalog entries with names, optionally
// filtered by brand.
func (r *PostgresCatalogRepository) ListBrandCatalog(ctx context.Context, brandID string) ([]BrandCatalogRow, error) {
	query := `
		SELECT e.id, e.brand_id, e.product_id, e.status, e.created_at, b.name, p.name
		FROM brand_product_catalog e
		JOIN brands b ON b.id = e.brand_id
		JOIN products p ON p.id = e.product_id
		WHERE ($1 = '' OR e.brand_id::text = $1)
		ORDER BY b.name, p.name
	`
	rows, err := r.pool.Query(ctx, query, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BrandCatalogRow
	for rows.Next() {
		var row BrandCatalogRow
		if err := rows.Scan(&row.ID, &row.BrandID, &row.ProductID, &row.Status, &row.CreatedAt, &row.BrandName, &row.ProductName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetBrandCatalogEntry retrieves one catalog entry by pair
func (r *PostgresCatalogRepository) GetBrandCatalogEntry(ctx context.Context, brandID, productID string) (*domain.BrandCatalogEntry, error) {
	e := &domain.BrandCatalogEntry{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, brand_id, product_id, status, created_at
		 FROM brand_product_catalog WHERE brand_id = $1 AND product_id = $2`,
		brandID, productID,
	).Scan(&e.ID, &e.BrandID, &e.ProductID, &e.Status, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}
