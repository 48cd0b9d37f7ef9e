package domain

import (
	"time"
)

// AlertType is the condition a price alert fires on
type AlertType string

const (
	AlertBelow     AlertType = "below"      // price at or below target
	AlertAbove     AlertType = "above"      // price at or above target
	AlertAnyChange AlertType = "any_change" // price moved at all
)

// ValidAlertType reports whether t is a known alert type
func ValidAlertType(t AlertType) bool {
	switch t {
	case AlertBelow, AlertAbove, AlertAnyChange:
		return true
	}
	return false
}

// PriceDelta is the minimum movement between consecutive reports
// before alerts are evaluated, guards against float noise.
const PriceDelta = 0.01

// Alert is a user's standing price watch on a generic product,
// optionally narrowed to one supermarket. Once fired it stays
// triggered and is skipped on later reports.
type Alert struct {
	ID            string
	UserID        string
	ProductID     string
	SupermarketID *string
	Type          AlertType
	TargetPrice   *float64
	Triggered     bool
	CreatedAt     time.Time
}

// Matches reports whether a newly reported price satisfies the alert
// condition. Callers only evaluate alerts after the price actually
// moved (see PriceDelta), so any_change always fires here.
// Comparisons are inclusive: a price exactly at the target triggers.
func (a *Alert) Matches(price float64) bool {
	switch a.Type {
	case AlertBelow:
		return a.TargetPrice != nil && price <= *a.TargetPrice
	case AlertAbove:
		return a.TargetPrice != nil && price >= *a.TargetPrice
	case AlertAnyChange:
		return true
	}
	return false
}

// Notification types
const (
	NotificationPriceAlert = "price_alert"
)

// Notification is a message delivered to a user, currently produced
// by fired alerts.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      string
	Read      bool
	CreatedAt time.Time
}
