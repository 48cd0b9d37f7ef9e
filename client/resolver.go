package client

import (
	"context"
	"errors"
	"fmt"
)

// ResolverState is the add-item cascade position.
type ResolverState int

const (
	// StateNoProduct: nothing chosen yet.
	StateNoProduct ResolverState = iota
	// StateNeedBrand: product chosen, brand choice pending.
	StateNeedBrand
	// StateNeedUnit: brand resolved, unit choice pending.
	StateNeedUnit
	// StateReady: terminal, the item can be built.
	StateReady
)

var (
	// ErrNotReady is returned when BuildItem runs outside the
	// terminal state.
	ErrNotReady = errors.New("item resolver not in ready state")
	// ErrUnknownBrand is returned when a selected brand is not among
	// the current options.
	ErrUnknownBrand = errors.New("brand not among current options")
	// ErrUnknownUnit is returned when a selected unit is not among
	// the current options.
	ErrUnknownUnit = errors.New("unit not among current options")
)

// CatalogSource supplies the availability lookups the cascade needs.
// *Client satisfies it.
type CatalogSource interface {
	SellableProducts(ctx context.Context, supermarketID, productID string) ([]SellableProduct, error)
	SellableProductUnits(ctx context.Context, sellableProductID string) ([]SellableProductUnit, error)
}

// ListAPI is the shopping-list access AppendTo needs. *Client
// satisfies it.
type ListAPI interface {
	ShoppingList(ctx context.Context, listID string) (*ShoppingList, error)
	UpdateShoppingList(ctx context.Context, listID string, update *ListUpdate) (*ShoppingList, error)
}

// ItemResolver walks one add-item interaction through the
// product, brand, unit cascade for a list bound to one supermarket.
// Single options are auto-selected; changing the product resets brand
// and unit, changing the brand resets the unit.
type ItemResolver struct {
	catalog       CatalogSource
	supermarketID string

	productID string

	brandOptions []SellableProduct
	sellableID   string
	brandID      string

	unitOptions []SellableProductUnit
	unitID      *string

	quantity float64
}

// NewItemResolver creates a resolver for a list bound to
// supermarketID. Quantity starts at 1.
func NewItemResolver(catalog CatalogSource, supermarketID string) *ItemResolver {
	return &ItemResolver{
		catalog:       catalog,
		supermarketID: supermarketID,
		quantity:      1,
	}
}

// State derives the cascade position from what has been resolved.
func (r *ItemResolver) State() ResolverState {
	switch {
	case r.productID == "":
		return StateNoProduct
	case r.sellableID == "":
		return StateNeedBrand
	case r.unitID == nil:
		return StateNeedUnit
	default:
		return StateReady
	}
}

// Ready reports whether the item can be built.
func (r *ItemResolver) Ready() bool {
	return r.State() == StateReady
}

// BrandOptions returns the sellable products matching the chosen
// product at the list's supermarket.
func (r *ItemResolver) BrandOptions() []SellableProduct {
	return r.brandOptions
}

// UnitOptions returns the unit choices for the resolved sellable
// product.
func (r *ItemResolver) UnitOptions() []SellableProductUnit {
	return r.unitOptions
}

// Quantity returns the current quantity.
func (r *ItemResolver) Quantity() float64 {
	return r.quantity
}

// SetQuantity updates the quantity. Non-positive values fall back to
// 1. Editable in every state.
func (r *ItemResolver) SetQuantity(q float64) {
	if q <= 0 {
		q = 1
	}
	r.quantity = q
}

// SelectProduct resets brand and unit, then derives the brand options
// for {product, supermarket}. Zero options is a dead end but not an
// error; exactly one auto-selects the brand and advances.
func (r *ItemResolver) SelectProduct(ctx context.Context, productID string) error {
	r.productID = productID
	r.brandOptions = nil
	r.sellableID = ""
	r.brandID = ""
	r.unitOptions = nil
	r.unitID = nil

	if productID == "" {
		return nil
	}

	options, err := r.catalog.SellableProducts(ctx, r.supermarketID, productID)
	if err != nil {
		return fmt.Errorf("load brand options: %w", err)
	}
	r.brandOptions = options

	if len(options) == 1 {
		return r.resolveSellable(ctx, options[0])
	}
	return nil
}

// SelectBrand resets the unit, resolves the sellable product for the
// chosen brand and loads its unit options.
func (r *ItemResolver) SelectBrand(ctx context.Context, brandID string) error {
	r.sellableID = ""
	r.brandID = ""
	r.unitOptions = nil
	r.unitID = nil

	for _, option := range r.brandOptions {
		if option.BrandID == brandID {
			return r.resolveSellable(ctx, option)
		}
	}
	return ErrUnknownBrand
}

// SelectUnit picks a unit from the loaded options.
func (r *ItemResolver) SelectUnit(unitID string) error {
	for _, option := range r.unitOptions {
		if option.UnitID == unitID {
			id := option.UnitID
			r.unitID = &id
			return nil
		}
	}
	return ErrUnknownUnit
}

// resolveSellable fixes the sellable product and fetches its unit
// options, auto-selecting when there is exactly one.
func (r *ItemResolver) resolveSellable(ctx context.Context, option SellableProduct) error {
	r.sellableID = option.ID
	r.brandID = option.BrandID

	units, err := r.catalog.SellableProductUnits(ctx, option.ID)
	if err != nil {
		return fmt.Errorf("load unit options: %w", err)
	}
	r.unitOptions = units

	if len(units) == 1 {
		id := units[0].UnitID
		r.unitID = &id
	}
	return nil
}

// BuildItem yields the resolved item: purchased=false, no price yet.
func (r *ItemResolver) BuildItem() (ListItemInput, error) {
	if !r.Ready() {
		return ListItemInput{}, ErrNotReady
	}
	unitID := *r.unitID
	return ListItemInput{
		SellableProductID: r.sellableID,
		Quantity:          r.quantity,
		UnitID:            &unitID,
		Price:             nil,
		Purchased:         false,
	}, nil
}

// AppendTo appends the resolved item to a list, saving the full
// updated sequence so existing items keep their order and contents.
func (r *ItemResolver) AppendTo(ctx context.Context, lists ListAPI, listID string) (*ShoppingList, error) {
	item, err := r.BuildItem()
	if err != nil {
		return nil, err
	}

	list, err := lists.ShoppingList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("load list: %w", err)
	}

	items := make([]ListItemInput, 0, len(list.Items)+1)
	for _, existing := range list.Items {
		items = append(items, ListItemInput{
			SellableProductID: existing.SellableProductID,
			Quantity:          existing.Quantity,
			UnitID:            existing.UnitID,
			Price:             existing.Price,
			Purchased:         existing.Purchased,
		})
	}
	items = append(items, item)

	updated, err := lists.UpdateShoppingList(ctx, listID, &ListUpdate{Items: &items})
	if err != nil {
		return nil, fmt.Errorf("save list: %w", err)
	}
	return updated, nil
}
