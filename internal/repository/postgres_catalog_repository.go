package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pricehive/pricehive/internal/domain"
)

// PostgresCatalogRepository implements CatalogRepository using
// PostgreSQL. Reference-entity methods live here, product and
// sellable-product methods in postgres_product_repository.go.
type PostgresCatalogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository
func NewPostgresCatalogRepository(pool *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{pool: pool}
}

// CreateCategory inserts a category
func (r *PostgresCatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt,
	)
	return err
}

// ListCategories returns all categories ordered by name
func (r *PostgresCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCategory renames a category, reporting whether it existed
func (r *PostgresCatalogRepository) UpdateCategory(ctx context.Context, id, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteCategory removes a category, reporting whether it existed
func (r *PostgresCatalogRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateBrand inserts a brand
func (r *PostgresCatalogRepository) CreateBrand(ctx context.Context, b *domain.Brand) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO brands (id, name, created_at) VALUES ($1, $2, $3)`,
		b.ID, b.Name, b.CreatedAt,
	)
	return err
}

// ListBrands returns all brands ordered by name
func (r *PostgresCatalogRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM brands ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBrand renames a brand, reporting whether it existed
func (r *PostgresCatalogRepository) UpdateBrand(ctx context.Context, id, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE brands SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteBrand removes a brand, reporting whether it existed
func (r *PostgresCatalogRepository) DeleteBrand(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateSupermarket inserts a supermarket
func (r *PostgresCatalogRepository) CreateSupermarket(ctx context.Context, s *domain.Supermarket) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO supermarkets (id, name, created_at) VALUES ($1, $2, $3)`,
		s.ID, s.Name, s.CreatedAt,
	)
	return err
}

// ListSupermarkets returns all supermarkets ordered by name
func (r *PostgresCatalogRepository) ListSupermarkets(ctx context.Context) ([]domain.Supermarket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM supermarkets ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Supermarket
	for rows.Next() {
		var s domain.Supermarket
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateSupermarket renames a supermarket, reporting whether it existed
func (r *PostgresCatalogRepository) UpdateSupermarket(ctx context.Context, id, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE supermarkets SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteSupermarket removes a supermarket, reporting whether it existed
func (r *PostgresCatalogRepository) DeleteSupermarket(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM supermarkets WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateUnit inserts a unit
func (r *PostgresCatalogRepository) CreateUnit(ctx context.Context, u *domain.Unit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO units (id, name, abbreviation, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Name, u.Abbreviation, u.CreatedAt,
	)
	return err
}

// ListUnits returns all units ordered by name
func (r *PostgresCatalogRepository) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, abbreviation, created_at FROM units ORDER BY name`,
	)
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

// UpdateUnit rewrites a unit, reporting whether it existed
func (r *PostgresCatalogRepository) UpdateUnit(ctx context.Context, u *domain.Unit) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE units SET name = $2, abbreviation = $3 WHERE id = $1`,
		u.ID, u.Name, u.Abbreviation,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteUnit removes a unit, reporting whether it existed
func (r *PostgresCatalogRepository) DeleteUnit(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
