package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/repository"
	"github.com/pricehive/pricehive/pkg/logger"
	"github.com/pricehive/pricehive/pkg/telemetry"
)

// PriceService records crowd-reported prices, awards contributor
// points and fires matching price alerts.
type PriceService interface {
	// Create records a price report on behalf of a user
	Create(ctx context.Context, userID string, req *dto.PriceCreateRequest) (*dto.PriceResponse, error)
	List(ctx context.Context, sellableProductID string, limit int) ([]dto.PriceResponse, error)
	// Latest reports the newest price across a product's variants,
	// optionally narrowed to one supermarket.
	Latest(ctx context.Context, productID, supermarketID string) (*dto.LatestPriceResponse, error)
}

type priceService struct {
	priceRepo        repository.PriceRepository
	catalogRepo      repository.CatalogRepository
	userRepo         repository.UserRepository
	alertRepo        repository.AlertRepository
	notificationRepo repository.NotificationRepository
}

// NewPriceService creates a new PriceService
func NewPriceService(
	priceRepo repository.PriceRepository,
	catalogRepo repository.CatalogRepository,
	userRepo repository.UserRepository,
	alertRepo repository.AlertRepository,
	notificationRepo repository.NotificationRepository,
) PriceService {
	return &priceService{
		priceRepo:        priceRepo,
		catalogRepo:      catalogRepo,
		userRepo:         userRepo,
		alertRepo:        alertRepo,
		notificationRepo: notificationRepo,
	}
}

// Create records a price report, awards points and evaluates alerts
func (s *priceService) Create(ctx context.Context, userID string, req *dto.PriceCreateRequest) (*dto.PriceResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.price.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("sellable_product_id", req.SellableProductID),
		attribute.Float64("price", req.Price),
	)

	row, err := s.catalogRepo.GetSellableProductRow(ctx, req.SellableProductID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if row == nil {
		span.SetStatus(codes.Error, "sellable product not found")
		return nil, domain.ErrSellableProductNotFound
	}

	// Previous report is needed for any_change alerts, read it before
	// inserting the new one.
	previous, err := s.priceRepo.LatestBySellable(ctx, req.SellableProductID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	price := &domain.Price{
		ID:                uuid.New().String(),
		SellableProductID: req.SellableProductID,
		Price:             req.Price,
		Quantity:          quantity,
		UserID:            &userID,
		CreatedAt:         time.Now(),
	}

	if err := s.priceRepo.Create(ctx, price); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.userRepo.AddPoints(ctx, userID, domain.PointsPriceReport, "price report"); err != nil {
		// The report is already stored, losing points is the lesser evil
		logger.Get().Warn("failed to award price report points",
			zap.String("user_id", userID), zap.Error(err))
	}

	s.evaluateAlerts(ctx, row, price, previous)

	var reporter *string
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user != nil {
		reporter = &user.Name
	}

	span.SetAttributes(attribute.String("price_id", price.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.PriceResponse{
		ID:                price.ID,
		SellableProductID: price.SellableProductID,
		Price:             price.Price,
		Quantity:          price.Quantity,
		UnitPrice:         price.UnitPrice(),
		ProductName:       row.ProductName,
		BrandName:         row.BrandName,
		SupermarketName:   row.SupermarketName,
		ReportedBy:        reporter,
		CreatedAt:         price.CreatedAt,
	}, nil
}

// evaluateAlerts fires untriggered alerts matching the new report.
// Failures are logged and never fail the price create.
func (s *priceService) evaluateAlerts(ctx context.Context, row *repository.SellableProductRow, price *domain.Price, previous *domain.Price) {
	// Alerts react to movement: the first report for a sellable
	// product and sub-cent changes are skipped for every alert type.
	if previous == nil || math.Abs(price.Price-previous.Price) <= domain.PriceDelta {
		return
	}

	ctx, span := telemetry.StartSpan(ctx, "service.price.evaluate_alerts")
	defer span.End()

	alerts, err := s.alertRepo.MatchingForProduct(ctx, row.ProductID, row.SupermarketID)
	if err != nil {
		span.RecordError(err)
		logger.Get().Warn("failed to load alerts for price report",
			zap.String("product_id", row.ProductID), zap.Error(err))
		return
	}

	fired := 0
	for _, alert := range alerts {
		if !alert.Matches(price.Price) {
			continue
		}

		notification := &domain.Notification{
			ID:     uuid.New().String(),
			UserID: alert.UserID,
			Title:  "Price alert",
			Type:   domain.NotificationPriceAlert,
			Message: fmt.Sprintf("%s (%s) at %s is now %.2f",
				row.ProductName, row.BrandName, row.SupermarketName, price.Price),
			CreatedAt: time.Now(),
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			logger.Get().Warn("failed to create alert notification",
				zap.String("alert_id", alert.ID), zap.Error(err))
			continue
		}
		if err := s.alertRepo.MarkTriggered(ctx, alert.ID); err != nil {
			logger.Get().Warn("failed to mark alert triggered",
				zap.String("alert_id", alert.ID), zap.Error(err))
		}
		fired++
	}

	span.SetAttributes(attribute.Int("alerts_fired", fired))
	span.SetStatus(codes.Ok, "")
}

// List returns recent reports, newest first
func (s *priceService) List(ctx context.Context, sellableProductID string, limit int) ([]dto.PriceResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.priceRepo.List(ctx, sellableProductID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PriceResponse, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, dto.PriceResponse{
			ID:                r.ID,
			SellableProductID: r.SellableProductID,
			Price:             r.Price.Price,
			Quantity:          r.Quantity,
			UnitPrice:         r.UnitPrice(),
			ProductName:       r.ProductName,
			BrandName:         r.BrandName,
			SupermarketName:   r.SupermarketName,
			ReportedBy:        r.ReporterName,
			CreatedAt:         r.CreatedAt,
		})
	}
	return out, nil
}

// Latest answers what a product costs right now
func (s *priceService) Latest(ctx context.Context, productID, supermarketID string) (*dto.LatestPriceResponse, error) {
	product, err := s.catalogRepo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	price, err := s.priceRepo.LatestForProduct(ctx, productID, supermarketID)
	if err != nil {
		return nil, err
	}

	resp := &dto.LatestPriceResponse{ProductID: productID}
	if price == nil {
		msg := "No prices reported yet"
		resp.Message = &msg
		return resp, nil
	}

	unit := price.UnitPrice()
	resp.Price = &price.Price
	resp.Quantity = &price.Quantity
	resp.UnitPrice = &unit
	resp.CreatedAt = &price.CreatedAt
	return resp, nil
}
