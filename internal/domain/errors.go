package domain

import "errors"

// Not-found errors, one per entity so handlers can map them to
// precise 404 messages.
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrBrandNotFound           = errors.New("brand not found")
	ErrSupermarketNotFound     = errors.New("supermarket not found")
	ErrUnitNotFound            = errors.New("unit not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrSellableProductNotFound = errors.New("sellable product not found")
	ErrListNotFound            = errors.New("shopping list not found")
	ErrItemNotFound            = errors.New("shopping list item not found")
	ErrPostNotFound            = errors.New("post not found")
	ErrAlertNotFound           = errors.New("alert not found")
	ErrNotificationNotFound    = errors.New("notification not found")
)

// Validation and state errors
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrDuplicateEntry   = errors.New("entry already exists")
	ErrInvalidReaction  = errors.New("invalid reaction type")
	ErrInvalidAlertType = errors.New("invalid alert type")
	ErrTargetRequired   = errors.New("target price required for this alert type")
	ErrNotOwner         = errors.New("resource belongs to another user")
)

// IsNotFound reports whether err is any of the entity not-found errors
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound,
		ErrCategoryNotFound,
		ErrBrandNotFound,
		ErrSupermarketNotFound,
		ErrUnitNotFound,
		ErrProductNotFound,
		ErrSellableProductNotFound,
		ErrListNotFound,
		ErrItemNotFound,
		ErrPostNotFound,
		ErrAlertNotFound,
		ErrNotificationNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
