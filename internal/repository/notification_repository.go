package repository

import (
	"context"
	"time"

	"github.com/pricehive/pricehive/internal/domain"
)

// NotificationRepository defines data access for user notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
	// DeleteReadBefore prunes read notifications older than the
	// cutoff, returning how many were removed.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
