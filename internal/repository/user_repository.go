package repository

import (
	"context"

	"github.com/pricehive/pricehive/internal/domain"
)

// UserRepository defines data access for user accounts and points
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error

	// AddPoints atomically bumps the user's balance and appends a
	// point history entry.
	AddPoints(ctx context.Context, userID string, points int, reason string) error
	PointHistory(ctx context.Context, userID string, limit int) ([]domain.PointEntry, error)
	CountWithMorePoints(ctx context.Context, points int) (int, error)
	TopByPoints(ctx context.Context, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}
