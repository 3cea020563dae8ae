package notify

import (
	"context"
	"time"

	"kedai-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is emitted after a successful order creation or status change so a
// push-delivery collaborator can fan it out to customer and store devices.
type Event struct {
	OrderID               uuid.UUID
	OrderNumber           string
	Status                string
	CustomerID            uuid.UUID
	StoreID               uuid.UUID
	EstimatedDeliveryTime *time.Time
}

// Notifier is best-effort by contract: callers log a failed Publish and move
// on; it must never roll back the operation that produced the event.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// LogNotifier writes events to the structured log. It stands in for the
// real-time push channel, which is delivered by a separate system.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, event Event) error {
	fields := []zap.Field{
		zap.String("order_id", event.OrderID.String()),
		zap.String("order_number", event.OrderNumber),
		zap.String("status", event.Status),
		zap.String("customer_id", event.CustomerID.String()),
		zap.String("store_id", event.StoreID.String()),
	}
	if event.EstimatedDeliveryTime != nil {
		fields = append(fields, zap.Time("estimated_delivery_time", *event.EstimatedDeliveryTime))
	}

	logger.FromCtx(ctx).Info("order event", fields...)
	return nil
}
