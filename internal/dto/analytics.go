package dto

import "time"

// PricePoint is one observation in a product's price history
type PricePoint struct {
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	UnitPrice float64   `json:"unit_price"`
}

// ProductAnalyticsResponse summarizes reported unit prices for a
// generic product, optionally narrowed to one supermarket.
type ProductAnalyticsResponse struct {
	ProductID    string       `json:"product_id"`
	ProductName  string       `json:"product_name"`
	CurrentPrice *float64     `json:"current_price"`
	MinPrice     *float64     `json:"min_price"`
	MaxPrice     *float64     `json:"max_price"`
	AvgPrice     *float64     `json:"avg_price"`
	History      []PricePoint `json:"history"`
}

// ComparisonEntry is one supermarket's latest unit price for a
// generic product, cheapest first in the response.
type ComparisonEntry struct {
	SupermarketID   string    `json:"supermarket_id"`
	SupermarketName string    `json:"supermarket_name"`
	BrandName       string    `json:"brand_name"`
	UnitPrice       float64   `json:"unit_price"`
	ReportedAt      time.Time `json:"reported_at"`
}

type ComparisonResponse struct {
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	BestPrice   *float64          `json:"best_price"`
	Entries     []ComparisonEntry `json:"entries"`
}

// RecentPrice is one row of stats recent activity
type RecentPrice struct {
	ProductName     string    `json:"product_name"`
	SupermarketName string    `json:"supermarket_name"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalUsers     int           `json:"total_users"`
	TotalProducts  int           `json:"total_products"`
	TotalPrices    int           `json:"total_prices"`
	RecentActivity []RecentPrice `json:"recent_activity"`
}

type LeaderboardEntry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Rank   int    `json:"rank"`
}

type PointEntryResponse struct {
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// MyPointsResponse is a user's points, global rank and recent history
type MyPointsResponse struct {
	Points  int                  `json:"points"`
	Rank    int                  `json:"rank"`
	History []PointEntryResponse `json:"history"`
}
