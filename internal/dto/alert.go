package dto

import "time"

type AlertCreateRequest struct {
	ProductID     string   `json:"product_id" binding:"required,uuid"`
	SupermarketID *string  `json:"supermarket_id" binding:"omitempty,uuid"`
	AlertType     string   `json:"alert_type" binding:"required"`
	TargetPrice   *float64 `json:"target_price" binding:"omitempty,gt=0"`
}

type AlertResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	SupermarketID   *string   `json:"supermarket_id"`
	SupermarketName *string   `json:"supermarket_name"`
	AlertType       string    `json:"alert_type"`
	TargetPrice     *float64  `json:"target_price"`
	Triggered       bool      `json:"triggered"`
	CreatedAt       time.Time `json:"created_at"`
}

type NotificationResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notification_type"`
	Read             bool      `json:"read"`
	CreatedAt        time.Time `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
