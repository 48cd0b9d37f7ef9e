package service

import (
	"context"
	"sort"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/repository"
)

// AnalyticsService serves read-only aggregates: price history and
// stats, supermarket comparison, leaderboard and point balances.
type AnalyticsService interface {
	// ProductAnalytics summarizes unit prices for a generic product,
	// optionally narrowed to one supermarket.
	ProductAnalytics(ctx context.Context, productID, supermarketID string, limit int) (*dto.ProductAnalyticsResponse, error)
	// Compare returns each supermarket's latest unit price for a
	// generic product, cheapest first.
	Compare(ctx context.Context, productID string) (*dto.ComparisonResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	MyPoints(ctx context.Context, userID string) (*dto.MyPointsResponse, error)
}

type analyticsService struct {
	priceRepo   repository.PriceRepository
	catalogRepo repository.CatalogRepository
	userRepo    repository.UserRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	priceRepo repository.PriceRepository,
	catalogRepo repository.CatalogRepository,
	userRepo repository.UserRepository,
) AnalyticsService {
	return &analyticsService{
		priceRepo:   priceRepo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
	}
}

// ProductAnalytics summarizes reported unit prices for a product
func (s *analyticsService) ProductAnalytics(ctx context.Context, productID, supermarketID string, limit int) (*dto.ProductAnalyticsResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	product, err := s.catalogRepo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	history, err := s.priceRepo.HistoryForProduct(ctx, productID, supermarketID, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProductAnalyticsResponse{
		ProductID:   productID,
		ProductName: product.Name,
		History:     make([]dto.PricePoint, 0, len(history)),
	}

	var sum float64
	for i := range history {
		p := &history[i]
		unit := p.UnitPrice()
		resp.History = append(resp.History, dto.PricePoint{
			Date:      p.CreatedAt,
			Price:     p.Price,
			UnitPrice: unit,
		})
		sum += unit
		if resp.MinPrice == nil || unit < *resp.MinPrice {
			v := unit
			resp.MinPrice = &v
		}
		if resp.MaxPrice == nil || unit > *resp.MaxPrice {
			v := unit
			resp.MaxPrice = &v
		}
	}
	if n := len(history); n > 0 {
		avg := sum / float64(n)
		resp.AvgPrice = &avg
		current := history[n-1].UnitPrice()
		resp.CurrentPrice = &current
	}
	return resp, nil
}

// Compare answers "where is this product cheapest right now"
func (s *analyticsService) Compare(ctx context.Context, productID string) (*dto.ComparisonResponse, error) {
	product, err := s.catalogRepo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	rows, err := s.priceRepo.LatestPerSupermarket(ctx, productID)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.ComparisonEntry, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		entries = append(entries, dto.ComparisonEntry{
			SupermarketID:   r.SupermarketID,
			SupermarketName: r.SupermarketName,
			BrandName:       r.BrandName,
			UnitPrice:       r.UnitPrice(),
			ReportedAt:      r.CreatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UnitPrice < entries[j].UnitPrice
	})

	resp := &dto.ComparisonResponse{
		ProductID:   productID,
		ProductName: product.Name,
		Entries:     entries,
	}
	if len(entries) > 0 {
		best := entries[0].UnitPrice
		resp.BestPrice = &best
	}
	return resp, nil
}

// Stats returns platform totals plus recent reporting activity
func (s *analyticsService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.catalogRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := s.priceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.priceRepo.List(ctx, "", 10)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatsResponse{
		TotalUsers:     users,
		TotalProducts:  products,
		TotalPrices:    prices,
		RecentActivity: make([]dto.RecentPrice, 0, len(recent)),
	}
	for i := range recent {
		r := &recent[i]
		resp.RecentActivity = append(resp.RecentActivity, dto.RecentPrice{
			ProductName:     r.ProductName,
			SupermarketName: r.SupermarketName,
			Price:           r.Price.Price,
			CreatedAt:       r.CreatedAt,
		})
	}
	return resp, nil
}

// Leaderboard returns the top contributors by points
func (s *analyticsService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	users, err := s.userRepo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, dto.LeaderboardEntry{
			Name:   u.Name,
			Points: u.Points,
			Rank:   i + 1,
		})
	}
	return out, nil
}

// MyPoints returns the caller's balance, global rank and recent history
func (s *analyticsService) MyPoints(ctx context.Context, userID string) (*dto.MyPointsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	ahead, err := s.userRepo.CountWithMorePoints(ctx, user.Points)
	if err != nil {
		return nil, err
	}

	history, err := s.userRepo.PointHistory(ctx, userID, 20)
	if err != nil {
		return nil, err
	}

	resp := &dto.MyPointsResponse{
		Points:  user.Points,
		Rank:    ahead + 1,
		History: make([]dto.PointEntryResponse, 0, len(history)),
	}
	for _, h := range history {
		resp.History = append(resp.History, dto.PointEntryResponse{
			Points:    h.Points,
			Reason:    h.Reason,
			CreatedAt: h.CreatedAt,
		})
	}
	return resp, nil
}
