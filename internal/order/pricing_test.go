package order

import (
	"testing"

	"kedai-be/internal/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuOf(items ...*catalog.MenuItem) map[uuid.UUID]*catalog.MenuItem {
	m := make(map[uuid.UUID]*catalog.MenuItem, len(items))
	for _, item := range items {
		m[item.ID] = item
	}
	return m
}

func availableItem(price int64) *catalog.MenuItem {
	return &catalog.MenuItem{ID: uuid.New(), Price: price, IsAvailable: true}
}

func TestComputePricing(t *testing.T) {
	t.Run("ConcreteScenario", func(t *testing.T) {
		// One item at 12.00, qty 1, delivery fee 2.99, minimum 10.00:
		// subtotal 12.00, tax 0.96 (8%), total 15.95.
		item := availableItem(1200)

		pricing, err := ComputePricing(
			[]LineItem{{MenuItemID: item.ID, Quantity: 1}},
			menuOf(item),
			299,
			1000,
		)
		require.NoError(t, err)

		assert.Equal(t, int64(1200), pricing.Subtotal)
		assert.Equal(t, int64(299), pricing.DeliveryFee)
		assert.Equal(t, int64(96), pricing.Tax)
		assert.Equal(t, int64(1595), pricing.Total)
	})

	t.Run("TotalIdentity", func(t *testing.T) {
		a := availableItem(1234)
		b := availableItem(567)

		pricing, err := ComputePricing(
			[]LineItem{
				{MenuItemID: a.ID, Quantity: 3},
				{MenuItemID: b.ID, Quantity: 7},
			},
			menuOf(a, b),
			499,
			0,
		)
		require.NoError(t, err)

		assert.Equal(t, pricing.Subtotal+pricing.DeliveryFee+pricing.Tax, pricing.Total)
		assert.Equal(t, int64(3*1234+7*567), pricing.Subtotal)
	})

	t.Run("Deterministic", func(t *testing.T) {
		item := availableItem(999)
		lines := []LineItem{{MenuItemID: item.ID, Quantity: 13}}
		menu := menuOf(item)

		first, err := ComputePricing(lines, menu, 250, 0)
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			again, err := ComputePricing(lines, menu, 250, 0)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("MinimumOrderBoundary", func(t *testing.T) {
		just := availableItem(999)
		_, err := ComputePricing(
			[]LineItem{{MenuItemID: just.ID, Quantity: 1}},
			menuOf(just),
			299,
			1000,
		)
		assert.ErrorIs(t, err, ErrMinimumOrderNotMet)

		exact := availableItem(1000)
		pricing, err := ComputePricing(
			[]LineItem{{MenuItemID: exact.ID, Quantity: 1}},
			menuOf(exact),
			299,
			1000,
		)
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), pricing.Subtotal)
	})

	t.Run("ItemUnavailable", func(t *testing.T) {
		item := &catalog.MenuItem{ID: uuid.New(), Price: 1200, IsAvailable: false}

		_, err := ComputePricing(
			[]LineItem{{MenuItemID: item.ID, Quantity: 1}},
			menuOf(item),
			0, 0,
		)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("ItemMissingFromCatalog", func(t *testing.T) {
		_, err := ComputePricing(
			[]LineItem{{MenuItemID: uuid.New(), Quantity: 1}},
			menuOf(),
			0, 0,
		)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("QuantityBounds", func(t *testing.T) {
		item := availableItem(1200)
		menu := menuOf(item)

		for _, qty := range []int{0, -1, MaxQuantityPerItem + 1} {
			_, err := ComputePricing(
				[]LineItem{{MenuItemID: item.ID, Quantity: qty}},
				menu, 0, 0,
			)
			assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", qty)
		}

		_, err := ComputePricing(
			[]LineItem{{MenuItemID: item.ID, Quantity: MaxQuantityPerItem}},
			menu, 0, 0,
		)
		assert.NoError(t, err)
	})

	t.Run("MaximumOrderExceeded", func(t *testing.T) {
		expensive := availableItem(20000)

		_, err := ComputePricing(
			[]LineItem{{MenuItemID: expensive.ID, Quantity: 25}},
			menuOf(expensive),
			0, 0,
		)
		assert.ErrorIs(t, err, ErrMaximumOrderExceeded)
	})
}

func TestRoundBps(t *testing.T) {
	// Half-up rounding at 8%: 1200 -> 96, 1050 -> 84, 131 -> 10.48 -> 10,
	// 132 -> 10.56 -> 11.
	assert.Equal(t, int64(96), roundBps(1200, TaxRateBps))
	assert.Equal(t, int64(84), roundBps(1050, TaxRateBps))
	assert.Equal(t, int64(10), roundBps(131, TaxRateBps))
	assert.Equal(t, int64(11), roundBps(132, TaxRateBps))
	assert.Equal(t, int64(0), roundBps(0, TaxRateBps))
}
