package domain

import "time"

// Role is the authorization level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Points awarded for user contributions
const (
	PointsWelcome        = 50
	PointsPriceReport    = 10
	PointsPost           = 5
	PointsComment        = 2
	PointsPriceSubmitted = 10
)

// User is a registered account. PasswordHash is empty for accounts
// created through Google login.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Picture      *string
	Points       int
	CreatedAt    time.Time
}

// IsAdmin reports whether the user has admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Claims carries the identity extracted from an access token
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

// PointEntry is one line of a user's point history
type PointEntry struct {
	ID        string
	UserID    string
	Points    int
	Reason    string
	CreatedAt time.Time
}
