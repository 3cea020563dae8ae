package order

import (
	"fmt"

	"kedai-be/internal/catalog"

	"github.com/google/uuid"
)

// ComputePricing derives subtotal, tax and total for the requested lines
// against a catalog snapshot. Pure: no I/O, deterministic for given inputs,
// so it can run inside the creation transaction boundary and in tests.
//
// deliveryFee and minimumOrder come from the store; all values are cents.
func ComputePricing(
	items []LineItem,
	menu map[uuid.UUID]*catalog.MenuItem,
	deliveryFee int64,
	minimumOrder int64,
) (*Pricing, error) {

	var subtotal int64

	for _, line := range items {
		menuItem, ok := menu[line.MenuItemID]
		if !ok || !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, line.MenuItemID)
		}

		if line.Quantity < 1 || line.Quantity > MaxQuantityPerItem {
			return nil, fmt.Errorf("%w: quantity %d for %s", ErrInvalidQuantity, line.Quantity, line.MenuItemID)
		}

		subtotal += menuItem.Price * int64(line.Quantity)
	}

	if subtotal < minimumOrder {
		return nil, fmt.Errorf("%w: subtotal %d below minimum %d", ErrMinimumOrderNotMet, subtotal, minimumOrder)
	}

	tax := roundBps(subtotal, TaxRateBps)
	total := subtotal + deliveryFee + tax

	if total < MinOrderValue {
		return nil, fmt.Errorf("%w: total %d below %d", ErrMinimumOrderNotMet, total, MinOrderValue)
	}
	if total > MaxOrderValue {
		return nil, fmt.Errorf("%w: total %d above %d", ErrMaximumOrderExceeded, total, MaxOrderValue)
	}

	return &Pricing{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       total,
	}, nil
}

// roundBps applies a basis-point rate with half-up rounding, staying in
// integer cents the whole way.
func roundBps(amount int64, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}
