package service

import (
	"context"
	"fmt"
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

// ShoppingListService manages a user's shopping lists. Items are
// replaced as a whole array on update, the client's ordering is the
// stored ordering.
type ShoppingListService interface {
	Create(ctx context.Context, userID string, req *dto.ShoppingListCreateRequest) (*dto.ShoppingListResponse, error)
	List(ctx context.Context, userID string) ([]dto.ShoppingListResponse, error)
	Get(ctx context.Context, userID, listID string) (*dto.ShoppingListResponse, error)
	Update(ctx context.Context, userID, listID string, req *dto.ShoppingListUpdateRequest) (*dto.ShoppingListResponse, error)
	Delete(ctx context.Context, userID, listID string) error
	MarkPurchased(ctx context.Context, userID, listID, itemID string, price *float64) (*dto.ShoppingListResponse, error)
	// SubmitPrices turns purchased items with an actual price into
	// price reports and awards points.
	SubmitPrices(ctx context.Context, userID, listID string) (*dto.SubmitPricesResponse, error)
}

type shoppingListService struct {
	listRepo  repository.ShoppingListRepository
	priceRepo repository.PriceRepository
	userRepo  repository.UserRepository
}

// NewShoppingListService creates a new ShoppingListService
func NewShoppingListService(
	listRepo repository.ShoppingListRepository,
	priceRepo repository.PriceRepository,
	userRepo repository.UserRepository,
) ShoppingListService {
	return &shoppingListService{
		listRepo:  listRepo,
		priceRepo: priceRepo,
		userRepo:  userRepo,
	}
}

// Create creates a list together with its initial items
func (s *shoppingListService) Create(ctx context.Context, userID string, req *dto.ShoppingListCreateRequest) (*dto.ShoppingListResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shopping_list.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("item_count", len(req.Items)),
	)

	now := time.Now()
	list := &domain.ShoppingList{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          req.Name,
		SupermarketID: req.SupermarketID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.listRepo.Create(ctx, list, buildItems(list.ID, req.Items)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if repository.IsForeignKeyViolation(err) {
			return nil, domain.ErrSupermarketNotFound
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("list_id", list.ID))
	span.SetStatus(codes.Ok, "")
	return s.Get(ctx, userID, list.ID)
}

// buildItems assigns IDs and positions from array order
func buildItems(listID string, inputs []dto.ShoppingListItemInput) []domain.ShoppingListItem {
	items := make([]domain.ShoppingListItem, 0, len(inputs))
	for i, in := range inputs {
		quantity := in.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, domain.ShoppingListItem{
			ID:                uuid.New().String(),
			ListID:            listID,
			Position:          i,
			SellableProductID: in.SellableProductID,
			Quantity:          quantity,
			UnitID:            in.UnitID,
			Price:             in.Price,
			Purchased:         in.Purchased,
		})
	}
	return items
}

// List returns the user's lists with enriched items
func (s *shoppingListService) List(ctx context.Context, userID string) ([]dto.ShoppingListResponse, error) {
	rows, err := s.listRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ShoppingListResponse, 0, len(rows))
	for i := range rows {
		resp, err := s.buildResponse(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Get returns one list, scoped to its owner
func (s *shoppingListService) Get(ctx context.Context, userID, listID string) (*dto.ShoppingListResponse, error) {
	row, err := s.listRepo.GetByID(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrListNotFound
	}
	return s.buildResponse(ctx, row)
}

// buildResponse loads the items and decorates them with latest known
// prices. Estimated totals come from crowd reports, actual totals from
// prices the user filled in.
func (s *shoppingListService) buildResponse(ctx context.Context, row *repository.ShoppingListRow) (*dto.ShoppingListResponse, error) {
	items, err := s.listRepo.Items(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.SellableProductID)
	}
	latest, err := s.priceRepo.LatestForSellables(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.ShoppingListResponse{
		ID:              row.ID,
		Name:            row.Name,
		SupermarketID:   row.SupermarketID,
		SupermarketName: row.SupermarketName,
		Items:           make([]dto.ShoppingListItemResponse, 0, len(items)),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}

	for _, item := range items {
		ir := dto.ShoppingListItemResponse{
			ID:                item.ID,
			SellableProductID: item.SellableProductID,
			Quantity:          item.Quantity,
			UnitID:            item.UnitID,
			Price:             item.Price,
			Purchased:         item.Purchased,
			ProductName:       item.ProductName,
			BrandName:         item.BrandName,
		}
		if p := latest[item.SellableProductID]; p != nil {
			estimated := p.UnitPrice() * item.Quantity
			ir.EstimatedPrice = &estimated
			resp.TotalEstimated += estimated
		}
		if item.Purchased && item.Price != nil {
			resp.TotalActual += *item.Price
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp, nil
}

// Update renames the list and/or replaces its items. A nil Items in
// the request leaves items untouched.
func (s *shoppingListService) Update(ctx context.Context, userID, listID string, req *dto.ShoppingListUpdateRequest) (*dto.ShoppingListResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shopping_list.update")
	defer span.End()

	span.SetAttributes(attribute.String("list_id", listID))

	row, err := s.listRepo.GetByID(ctx, listID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if row == nil {
		span.SetStatus(codes.Error, "list not found")
		return nil, domain.ErrListNotFound
	}

	list := row.ShoppingList
	if req.Name != nil {
		list.Name = *req.Name
	}
	if req.SupermarketID != nil {
		list.SupermarketID = *req.SupermarketID
	}
	list.UpdatedAt = time.Now()

	var items []domain.ShoppingListItem
	replaceItems := req.Items != nil
	if replaceItems {
		items = buildItems(list.ID, *req.Items)
	}

	if err := s.listRepo.Update(ctx, &list, items, replaceItems); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if repository.IsForeignKeyViolation(err) {
			return nil, domain.ErrSellableProductNotFound
		}
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return s.Get(ctx, userID, listID)
}

// Delete removes a list owned by the given user
func (s *shoppingListService) Delete(ctx context.Context, userID, listID string) error {
	deleted, err := s.listRepo.Delete(ctx, listID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrListNotFound
	}
	return nil
}

// MarkPurchased flags one item as bought and returns the updated list
func (s *shoppingListService) MarkPurchased(ctx context.Context, userID, listID, itemID string, price *float64) (*dto.ShoppingListResponse, error) {
	row, err := s.listRepo.GetByID(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrListNotFound
	}

	updated, err := s.listRepo.MarkPurchased(ctx, listID, itemID, price)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrItemNotFound
	}
	return s.buildResponse(ctx, row)
}

// SubmitPrices converts purchased items that carry an actual price
// into price reports.
func (s *shoppingListService) SubmitPrices(ctx context.Context, userID, listID string) (*dto.SubmitPricesResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shopping_list.submit_prices")
	defer span.End()

	span.SetAttributes(attribute.String("list_id", listID))

	row, err := s.listRepo.GetByID(ctx, listID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if row == nil {
		span.SetStatus(codes.Error, "list not found")
		return nil, domain.ErrListNotFound
	}

	items, err := s.listRepo.Items(ctx, listID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	submitted := 0
	for _, item := range items {
		if !item.Purchased || item.Price == nil {
			continue
		}
		price := &domain.Price{
			ID:                uuid.New().String(),
			SellableProductID: item.SellableProductID,
			Price:             *item.Price,
			Quantity:          item.Quantity,
			UserID:            &userID,
			CreatedAt:         time.Now(),
		}
		if err := s.priceRepo.Create(ctx, price); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		submitted++
	}

	points := submitted * domain.PointsPriceSubmitted
	if points > 0 {
		if err := s.userRepo.AddPoints(ctx, userID, points, "shopping list prices"); err != nil {
			logger.Get().Warn("failed to award shopping list points",
				zap.String("user_id", userID), zap.Error(err))
			points = 0
		}
	}

	span.SetAttributes(attribute.Int("prices_submitted", submitted))
	span.SetStatus(codes.Ok, "")

	return &dto.SubmitPricesResponse{
		Message:         fmt.Sprintf("%d prices submitted", submitted),
		PricesSubmitted: submitted,
		PointsEarned:    points,
	}, nil
}
