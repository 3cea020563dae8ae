package order

import (
	"time"

	"github.com/google/uuid"
)

// Monetary values are int64 cents throughout. Pricing is computed once at
// creation and never recomputed afterwards.
const (
	MaxQuantityPerItem = 50
	TaxRateBps         = 800    // 8%
	MinOrderValue      = 100    // 1.00
	MaxOrderValue      = 500000 // 5,000.00
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "CASH"
	PaymentCard    PaymentMethod = "CARD"
	PaymentEWallet PaymentMethod = "E_WALLET"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentEWallet:
		return true
	}
	return false
}

type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	CustomerID    uuid.UUID
	StoreID       uuid.UUID
	Status        Status
	Subtotal      int64
	DeliveryFee   int64
	Tax           int64
	Total         int64
	PaymentMethod PaymentMethod

	DeliveryAddress string
	CustomerPhone   string
	Notes           *string

	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem
}

// OrderItem is owned by its order: created atomically with it, immutable
// afterwards. ItemName and UnitPrice are snapshots of the catalog at order
// time and deliberately do not follow later menu edits.
type OrderItem struct {
	ID                  uuid.UUID
	OrderID             uuid.UUID
	MenuItemID          uuid.UUID
	ItemName            string
	Quantity            int
	UnitPrice           int64
	TotalPrice          int64
	SpecialInstructions *string
}

// LineItem is a requested order line before pricing.
type LineItem struct {
	MenuItemID          uuid.UUID
	Quantity            int
	SpecialInstructions *string
}

type CreateOrderInput struct {
	StoreID         uuid.UUID
	Items           []LineItem
	PaymentMethod   PaymentMethod
	DeliveryAddress string
	CustomerPhone   string
	Notes           *string
}

type Pricing struct {
	Subtotal    int64
	DeliveryFee int64
	Tax         int64
	Total       int64
}

type OrderFilter struct {
	CustomerID *uuid.UUID
	StoreID    *uuid.UUID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}

// OrderSummary is the denormalized projection for list views. Detail views
// use FindByIDWithDetails instead.
type OrderSummary struct {
	ID                    uuid.UUID
	OrderNumber           string
	Status                Status
	Total                 int64
	StoreName             string
	StoreCategory         string
	ItemCount             int
	EstimatedDeliveryTime *time.Time
	CreatedAt             time.Time
}
