package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/repository"
	"github.com/pricehive/pricehive/pkg/telemetry"
)

// AlertService manages price alerts and the notifications they produce
type AlertService interface {
	Create(ctx context.Context, userID string, req *dto.AlertCreateRequest) (*dto.AlertResponse, error)
	List(ctx context.Context, userID string) ([]dto.AlertResponse, error)
	Delete(ctx context.Context, userID, alertID string) error

	Notifications(ctx context.Context, userID string, limit int) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type alertService struct {
	alertRepo        repository.AlertRepository
	notificationRepo repository.NotificationRepository
	catalogRepo      repository.CatalogRepository
}

// NewAlertService creates a new AlertService
func NewAlertService(
	alertRepo repository.AlertRepository,
	notificationRepo repository.NotificationRepository,
	catalogRepo repository.CatalogRepository,
) AlertService {
	return &alertService{
		alertRepo:        alertRepo,
		notificationRepo: notificationRepo,
		catalogRepo:      catalogRepo,
	}
}

// Create registers a price watch. below and above require a target
// price, any_change must not carry one.
func (s *alertService) Create(ctx context.Context, userID string, req *dto.AlertCreateRequest) (*dto.AlertResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.alert.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product_id", req.ProductID),
		attribute.String("alert_type", req.AlertType),
	)

	alertType := domain.AlertType(req.AlertType)
	if !domain.ValidAlertType(alertType) {
		span.SetStatus(codes.Error, "invalid alert type")
		return nil, domain.ErrInvalidAlertType
	}
	if (alertType == domain.AlertBelow || alertType == domain.AlertAbove) && req.TargetPrice == nil {
		span.SetStatus(codes.Error, "target price required")
		return nil, domain.ErrTargetRequired
	}

	product, err := s.catalogRepo.GetProduct(ctx, req.ProductID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if product == nil {
		span.SetStatus(codes.Error, "product not found")
		return nil, domain.ErrProductNotFound
	}

	alert := &domain.Alert{
		ID:            uuid.New().String(),
		UserID:        userID,
		ProductID:     req.ProductID,
		SupermarketID: req.SupermarketID,
		Type:          alertType,
		TargetPrice:   req.TargetPrice,
		CreatedAt:     time.Now(),
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if repository.IsForeignKeyViolation(err) {
			return nil, domain.ErrSupermarketNotFound
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("alert_id", alert.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.AlertResponse{
		ID:            alert.ID,
		ProductID:     alert.ProductID,
		ProductName:   product.Name,
		SupermarketID: alert.SupermarketID,
		AlertType:     string(alert.Type),
		TargetPrice:   alert.TargetPrice,
		CreatedAt:     alert.CreatedAt,
	}, nil
}

// List returns the user's alerts
func (s *alertService) List(ctx context.Context, userID string) ([]dto.AlertResponse, error) {
	rows, err := s.alertRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AlertResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AlertResponse{
			ID:              r.ID,
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			SupermarketID:   r.SupermarketID,
			SupermarketName: r.SupermarketName,
			AlertType:       string(r.Type),
			TargetPrice:     r.TargetPrice,
			Triggered:       r.Triggered,
			CreatedAt:       r.CreatedAt,
		})
	}
	return out, nil
}

// Delete removes an alert owned by the given user
func (s *alertService) Delete(ctx context.Context, userID, alertID string) error {
	deleted, err := s.alertRepo.Delete(ctx, alertID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrAlertNotFound
	}
	return nil
}

// Notifications returns the user's notifications, newest first
func (s *alertService) Notifications(ctx context.Context, userID string, limit int) ([]dto.NotificationResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		out = append(out, dto.NotificationResponse{
			ID:               n.ID,
			Title:            n.Title,
			Message:          n.Message,
			NotificationType: n.Type,
			Read:             n.Read,
			CreatedAt:        n.CreatedAt,
		})
	}
	return out, nil
}

func (s *alertService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

func (s *alertService) MarkRead(ctx context.Context, userID, notificationID string) error {
	updated, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (s *alertService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
