package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Store carries the facts the order engine needs at order time.
// Monetary values are in cents.
type Store struct {
	ID                       uuid.UUID
	OwnerID                  uuid.UUID
	Name                     string
	Category                 string
	IsActive                 bool
	MinimumOrder             int64
	DeliveryFee              int64
	EstimatedDeliveryMinutes int
	TotalOrders              int64
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	StoreID     uuid.UUID
	Name        string
	Price       int64
	IsAvailable bool
}
