package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pricehive/pricehive/internal/domain"
)

// PostgresAlertRepository implements AlertRepository using PostgreSQL
type PostgresAlertRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAlertRepository creates a new PostgresAlertRepository
func NewPostgresAlertRepository(pool *pgxpool.Pool) *PostgresAlertRepository {
	return &PostgresAlertRepository{pool: pool}
}

// Create inserts an alert
func (r *PostgresAlertRepository) Create(ctx context.Context, a *domain.Alert) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO alerts (id, user_id, product_id, supermarket_id, alert_type, target_price, triggered, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.ProductID, a.SupermarketID, a.Type, a.TargetPrice, a.Triggered, a.CreatedAt,
	)
	return err
}

// ListByUser returns the user's alerts with display names, newest first
func (r *PostgresAlertRepository) ListByUser(ctx context.Context, userID string) ([]AlertRow, error) {
	query := `
		SELECT a.id, a.user_id, a.product_id, a.supermarket_id, a.alert_type,
		       a.target_price, a.triggered, a.created_at, p.name, s.name
		FROM alerts a
		JOIN products p ON p.id = a.product_id
		LEFT JOIN supermarkets s ON s.id = a.supermarket_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AlertRow
	for rows.Next() {
		var row AlertRow
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.ProductID, &row.SupermarketID, &row.Type,
			&row.TargetPrice, &row.Triggered, &row.CreatedAt, &row.ProductName, &row.SupermarketName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Delete removes an alert owned by the given user
func (r *PostgresAlertRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM alerts WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MatchingForProduct returns untriggered alerts for the product that
// apply everywhere or at the given supermarket.
func (r *PostgresAlertRepository) MatchingForProduct(ctx context.Context, productID, supermarketID string) ([]domain.Alert, error) {
	query := `
		SELECT id, user_id, product_id, supermarket_id, alert_type, target_price, triggered, created_at
		FROM alerts
		WHERE product_id = $1
		  AND NOT triggered
		  AND (supermarket_id IS NULL OR supermarket_id::text = $2)
	`
	rows, err := r.pool.Query(ctx, query, productID, supermarketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProductID, &a.SupermarketID, &a.Type, &a.TargetPrice, &a.Triggered, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkTriggered flags an alert as fired
func (r *PostgresAlertRepository) MarkTriggered(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE alerts SET triggered = TRUE WHERE id = $1`, id)
	return err
}
