package dto

import (
	"time"

	"github.com/pricehive/pricehive/internal/domain"
)

// RegisterRequest is the payload for email/password signup
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the payload for email/password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleSessionRequest exchanges a one-time session token for an
// access token after the Google OAuth redirect.
type GoogleSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// UserResponse is the public view of a user account
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Picture   *string   `json:"picture"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by every operation that establishes a
// session.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// NewUserResponse maps a domain user to its API shape
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Picture:   u.Picture,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}
