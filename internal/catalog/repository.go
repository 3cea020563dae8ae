package catalog

import (
	"context"
	"database/sql"
	"errors"

	"kedai-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reader is the read-only catalog surface the order engine consumes.
// Nothing here mutates; stock and menu management live elsewhere.
type Reader interface {
	GetStore(ctx context.Context, storeID uuid.UUID) (*Store, error)
	GetMenuItem(ctx context.Context, menuItemID uuid.UUID) (*MenuItem, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Reader {
	return &repository{db: db}
}

func (r *repository) GetStore(ctx context.Context, storeID uuid.UUID) (*Store, error) {
	query := `
		SELECT
			id, owner_id, name, category, is_active,
			minimum_order, delivery_fee, estimated_delivery_minutes,
			total_orders, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var s Store
	err := r.db.QueryRowContext(ctx, query, storeID).
		Scan(
			&s.ID,
			&s.OwnerID,
			&s.Name,
			&s.Category,
			&s.IsActive,
			&s.MinimumOrder,
			&s.DeliveryFee,
			&s.EstimatedDeliveryMinutes,
			&s.TotalOrders,
			&s.CreatedAt,
			&s.UpdatedAt,
		)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error(
			"failed to query store",
			zap.String("store_id", storeID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetMenuItem(ctx context.Context, menuItemID uuid.UUID) (*MenuItem, error) {
	query := `
		SELECT id, store_id, name, price, is_available
		FROM menu_items
		WHERE id = $1
	`

	var m MenuItem
	err := r.db.QueryRowContext(ctx, query, menuItemID).
		Scan(&m.ID, &m.StoreID, &m.Name, &m.Price, &m.IsAvailable)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error(
			"failed to query menu item",
			zap.String("menu_item_id", menuItemID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &m, nil
}
