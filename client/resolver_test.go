package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves canned availability rows keyed by product and
// sellable product.
type fakeCatalog struct {
	sellables map[string][]SellableProduct
	units     map[string][]SellableProductUnit

	sellableCalls int
	unitCalls     int
	err           error
}

func (c *fakeCatalog) SellableProducts(ctx context.Context, supermarketID, productID string) ([]SellableProduct, error) {
	c.sellableCalls++
	if c.err != nil {
		return nil, c.err
	}
	var matched []SellableProduct
	for _, sp := range c.sellables[productID] {
		if sp.SupermarketID == supermarketID {
			matched = append(matched, sp)
		}
	}
	return matched, nil
}

func (c *fakeCatalog) SellableProductUnits(ctx context.Context, sellableProductID string) ([]SellableProductUnit, error) {
	c.unitCalls++
	if c.err != nil {
		return nil, c.err
	}
	return c.units[sellableProductID], nil
}

// fakeListAPI stores a single list and records updates.
type fakeListAPI struct {
	list    *ShoppingList
	updates []*ListUpdate
}

func (a *fakeListAPI) ShoppingList(ctx context.Context, listID string) (*ShoppingList, error) {
	return a.list, nil
}

func (a *fakeListAPI) UpdateShoppingList(ctx context.Context, listID string, update *ListUpdate) (*ShoppingList, error) {
	a.updates = append(a.updates, update)
	return a.list, nil
}

func twoBrandCatalog() *fakeCatalog {
	return &fakeCatalog{
		sellables: map[string][]SellableProduct{
			"prod-a": {
				{ID: "sp-1", ProductID: "prod-a", BrandID: "brand-x", SupermarketID: "sm-s"},
				{ID: "sp-2", ProductID: "prod-a", BrandID: "brand-y", SupermarketID: "sm-s"},
			},
		},
		units: map[string][]SellableProductUnit{
			"sp-1": {
				{ID: "spu-1", SellableProductID: "sp-1", UnitID: "unit-kg", UnitName: "kilogram"},
				{ID: "spu-2", SellableProductID: "sp-1", UnitID: "unit-pc", UnitName: "piece"},
			},
			"sp-2": {
				{ID: "spu-3", SellableProductID: "sp-2", UnitID: "unit-kg", UnitName: "kilogram"},
			},
		},
	}
}

func TestItemResolver_TwoBrandsRequireChoice(t *testing.T) {
	resolver := NewItemResolver(twoBrandCatalog(), "sm-s")
	assert.Equal(t, StateNoProduct, resolver.State())

	require.NoError(t, resolver.SelectProduct(context.Background(), "prod-a"))

	assert.Equal(t, StateNeedBrand, resolver.State(), "two matches must not auto-select")
	assert.Len(t, resolver.BrandOptions(), 2)
	assert.False(t, resolver.Ready())
}

func TestItemResolver_SingleBrandAutoSelects(t *testing.T) {
	catalog := &fakeCatalog{
		sellables: map[string][]SellableProduct{
			"prod-a": {
				{ID: "sp-1", ProductID: "prod-a", BrandID: "brand-x", SupermarketID: "sm-s"},
			},
		},
		units: map[string][]SellableProductUnit{
			"sp-1": {
				{ID: "spu-1", SellableProductID: "sp-1", UnitID: "unit-kg"},
			},
		},
	}

	resolver := NewItemResolver(catalog, "sm-s")
	require.NoError(t, resolver.SelectProduct(context.Background(), "prod-a"))

	// One brand and one unit: the cascade lands in the terminal state
	// with no further user input.
	assert.Equal(t, StateReady, resolver.State())
	assert.True(t, resolver.Ready())

	item, err := resolver.BuildItem()
	require.NoError(t, err)
	assert.Equal(t, "sp-1", item.SellableProductID)
	require.NotNil(t, item.UnitID)
	assert.Equal(t, "unit-kg", *item.UnitID)
}

func TestItemResolver_ZeroMatchesIsDeadEnd(t *testing.T) {
	catalog := &fakeCatalog{sellables: map[string][]SellableProduct{}}

	resolver := NewItemResolver(catalog, "sm-s")
	require.NoError(t, resolver.SelectProduct(context.Background(), "prod-unknown"))

	assert.Equal(t, StateNeedBrand, resolver.State())
	assert.Empty(t, resolver.BrandOptions())
	assert.False(t, resolver.Ready())

	_, err := resolver.BuildItem()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestItemResolver_FullCascade(t *testing.T) {
	resolver := NewItemResolver(twoBrandCatalog(), "sm-s")
	ctx := context.Background()

	require.NoError(t, resolver.SelectProduct(ctx, "prod-a"))
	require.NoError(t, resolver.SelectBrand(ctx, "brand-x"))

	assert.Equal(t, StateNeedUnit, resolver.State(), "two units require a choice")
	assert.Len(t, resolver.UnitOptions(), 2)

	require.NoError(t, resolver.SelectUnit("unit-pc"))
	assert.Equal(t, StateReady, resolver.State())

	resolver.SetQuantity(3)
	item, err := resolver.BuildItem()
	require.NoError(t, err)
	assert.Equal(t, "sp-1", item.SellableProductID)
	assert.Equal(t, 3.0, item.Quantity)
	assert.Equal(t, "unit-pc", *item.UnitID)
	assert.Nil(t, item.Price)
	assert.False(t, item.Purchased)
}

func TestItemResolver_SingleUnitAutoSelects(t *testing.T) {
	resolver := NewItemResolver(twoBrandCatalog(), "sm-s")
	ctx := context.Background()

	require.NoError(t, resolver.SelectProduct(ctx, "prod-a"))
	require.NoError(t, resolver.SelectBrand(ctx, "brand-y"))

	// sp-2 has exactly one unit
	assert.Equal(t, StateReady, resolver.State())
}

func TestItemResolver_ProductChangeResetsBrandAndUnit(t *testing.T) {
	catalog := twoBrandCatalog()
	catalog.sellables["prod-b"] = []SellableProduct{
		{ID: "sp-3", ProductID: "prod-b", BrandID: "brand-z", SupermarketID: "sm-s"},
		{ID: "sp-4", ProductID: "prod-b", BrandID: "brand-w", SupermarketID: "sm-s"},
	}

	resolver := NewItemResolver(catalog, "sm-s")
	ctx := context.Background()

	require.NoError(t, resolver.SelectProduct(ctx, "prod-a"))
	require.NoError(t, resolver.SelectBrand(ctx, "brand-x"))
	require.NoError(t, resolver.SelectUnit("unit-kg"))
	require.True(t, resolver.Ready())

	require.NoError(t, resolver.SelectProduct(ctx, "prod-b"))

	assert.Equal(t, StateNeedBrand, resolver.State(), "no stale cross-product state")
	assert.Empty(t, resolver.UnitOptions())
	assert.False(t, resolver.Ready())
}

func TestItemResolver_BrandChangeResetsUnit(t *testing.T) {
	resolver := NewItemResolver(twoBrandCatalog(), "sm-s")
	ctx := context.Background()

	require.NoError(t, resolver.SelectProduct(ctx, "prod-a"))
	require.NoError(t, resolver.SelectBrand(ctx, "brand-x"))
	require.NoError(t, resolver.SelectUnit("unit-pc"))
	require.True(t, resolver.Ready())

	require.NoError(t, resolver.SelectBrand(ctx, "brand-y"))

	// brand-y resolves sp-2 whose single unit auto-selects, but the
	// previous explicit unit choice is gone.
	assert.Equal(t, "unit-kg", *resolver.mustBuild(t).UnitID)
}

func (r *ItemResolver) mustBuild(t *testing.T) ListItemInput {
	t.Helper()
	item, err := r.BuildItem()
	require.NoError(t, err)
	return item
}

func TestItemResolver_UnknownSelections(t *testing.T) {
	resolver := NewItemResolver(twoBrandCatalog(), "sm-s")
	ctx := context.Background()

	require.NoError(t, resolver.SelectProduct(ctx, "prod-a"))
	assert.ErrorIs(t, resolver.SelectBrand(ctx, "brand-nope"), ErrUnknownBrand)

	require.NoError(t, resolver.SelectBrand(ctx, "brand-x"))
	assert.ErrorIs(t, resolver.SelectUnit("unit-nope"), ErrUnknownUnit)
}

func TestItemResolver_QuantityDefaults(t *testing.T) {
	resolver := NewItemResolver(twoBrandCatalog(), "sm-s")
	assert.Equal(t, 1.0, resolver.Quantity())

	resolver.SetQuantity(2.5)
	assert.Equal(t, 2.5, resolver.Quantity())

	resolver.SetQuantity(-1)
	assert.Equal(t, 1.0, resolver.Quantity(), "non-positive quantity falls back to 1")
}

func TestItemResolver_CatalogErrorSurfaces(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("network down")}
	resolver := NewItemResolver(catalog, "sm-s")

	err := resolver.SelectProduct(context.Background(), "prod-a")
	require.Error(t, err)
	assert.Equal(t, StateNeedBrand, resolver.State(), "partial state is consistent, not crashed")
}

func TestItemResolver_AppendToPreservesExistingItems(t *testing.T) {
	price := 9.99
	kg := "unit-kg"
	existing := &ShoppingList{
		ID:            "list-1",
		SupermarketID: "sm-s",
		Items: []ListItem{
			{ID: "i1", SellableProductID: "sp-old-1", Quantity: 2, UnitID: &kg, Price: &price, Purchased: true},
			{ID: "i2", SellableProductID: "sp-old-2", Quantity: 1, UnitID: nil, Price: nil, Purchased: false},
		},
	}
	lists := &fakeListAPI{list: existing}

	resolver := NewItemResolver(twoBrandCatalog(), "sm-s")
	ctx := context.Background()
	require.NoError(t, resolver.SelectProduct(ctx, "prod-a"))
	require.NoError(t, resolver.SelectBrand(ctx, "brand-y"))
	require.True(t, resolver.Ready())

	_, err := resolver.AppendTo(ctx, lists, "list-1")
	require.NoError(t, err)

	require.Len(t, lists.updates, 1)
	update := lists.updates[0]
	require.NotNil(t, update.Items)
	items := *update.Items
	require.Len(t, items, 3)

	// prior items keep order and contents
	assert.Equal(t, "sp-old-1", items[0].SellableProductID)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.True(t, items[0].Purchased)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 9.99, *items[0].Price)

	assert.Equal(t, "sp-old-2", items[1].SellableProductID)
	assert.False(t, items[1].Purchased)

	// the new item lands last, unpurchased and unpriced
	assert.Equal(t, "sp-2", items[2].SellableProductID)
	assert.False(t, items[2].Purchased)
	assert.Nil(t, items[2].Price)

	// name and supermarket are untouched by an item append
	assert.Nil(t, update.Name)
	assert.Nil(t, update.SupermarketID)
}
