package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kedai-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateWithItems persists the order, its items, the daily order-number
	// counter and the store's total-order counter in one transaction. The
	// order number is assigned inside the transaction and written back onto
	// the order.
	CreateWithItems(ctx context.Context, o *Order) error

	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*Order, error)

	// UpdateStatus is a single guarded statement: it only applies when the
	// row still holds expected, so a transition checked against a stale
	// status cannot overwrite a concurrent one.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status, notes *string, deliveredAt *time.Time) (*Order, error)

	FindMany(ctx context.Context, filter *OrderFilter, page, limit int32) ([]*OrderSummary, int64, error)

	BelongsToCustomer(ctx context.Context, id, customerID uuid.UUID) (bool, error)
	BelongsToStore(ctx context.Context, id, storeID uuid.UUID) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, order_number, customer_id, store_id, status,
	subtotal, delivery_fee, tax, total, payment_method,
	delivery_address, customer_phone, notes,
	estimated_delivery_time, actual_delivery_time,
	created_at, updated_at
`

func (r *repository) CreateWithItems(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateWithItems"),
		zap.String("order_id", o.ID.String()),
		zap.Int("item_count", len(o.Items)),
	)

	log.Debug("starting order creation transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	// Atomic per-day sequence. The upsert takes a row lock on today's
	// counter, so concurrent creations serialize here and each sees a
	// distinct seq.
	day := o.CreatedAt.UTC().Truncate(24 * time.Hour)

	var seq int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_counters (day, seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq
	`, day).Scan(&seq)
	if err != nil {
		log.Error("failed to advance order counter", zap.Error(err))
		return err
	}

	o.OrderNumber = FormatOrderNumber(day, seq)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, customer_id, store_id, status,
			subtotal, delivery_fee, tax, total, payment_method,
			delivery_address, customer_phone, notes,
			estimated_delivery_time, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		o.ID,
		o.OrderNumber,
		o.CustomerID,
		o.StoreID,
		o.Status,
		o.Subtotal,
		o.DeliveryFee,
		o.Tax,
		o.Total,
		o.PaymentMethod,
		o.DeliveryAddress,
		o.CustomerPhone,
		o.Notes,
		o.EstimatedDeliveryTime,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, menu_item_id, item_name,
				quantity, unit_price, total_price, special_instructions
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			item.ID,
			o.ID,
			item.MenuItemID,
			item.ItemName,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			item.SpecialInstructions,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("menu_item_id", item.MenuItemID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE stores
		SET total_orders = total_orders + 1, updated_at = now()
		WHERE id = $1
	`, o.StoreID)
	if err != nil {
		log.Error("failed to increment store order counter", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order creation", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order created", zap.String("order_number", o.OrderNumber))

	return nil
}

func (r *repository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE id = $1
	`, id).Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.StoreID,
		&o.Status,
		&o.Subtotal,
		&o.DeliveryFee,
		&o.Tax,
		&o.Total,
		&o.PaymentMethod,
		&o.DeliveryAddress,
		&o.CustomerPhone,
		&o.Notes,
		&o.EstimatedDeliveryTime,
		&o.ActualDeliveryTime,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, item_name,
			quantity, unit_price, total_price, special_instructions
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MenuItemID,
			&item.ItemName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.SpecialInstructions,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	expected, next Status,
	notes *string,
	deliveredAt *time.Time,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", id.String()),
		zap.String("from", string(expected)),
		zap.String("to", string(next)),
	)

	var o Order
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1,
			notes = COALESCE($2, notes),
			actual_delivery_time = COALESCE($3, actual_delivery_time),
			updated_at = now()
		WHERE id = $4 AND status = $5
		RETURNING `+orderColumns+`
	`, next, notes, deliveredAt, id, expected).Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.StoreID,
		&o.Status,
		&o.Subtotal,
		&o.DeliveryFee,
		&o.Tax,
		&o.Total,
		&o.PaymentMethod,
		&o.DeliveryAddress,
		&o.CustomerPhone,
		&o.Notes,
		&o.EstimatedDeliveryTime,
		&o.ActualDeliveryTime,
		&o.CreatedAt,
		&o.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		// The row moved on since the transition was checked. Another
		// transition won; surface it the same way a stale table check would.
		log.Warn("status update lost the race")
		return nil, ErrInvalidStatusTransition
	}
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	log.Info("order status updated")

	return &o, nil
}

func (r *repository) FindMany(
	ctx context.Context,
	filter *OrderFilter,
	page, limit int32,
) ([]*OrderSummary, int64, error) {

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindMany"),
		zap.Int32("page", page),
		zap.Int32("limit", limit),
	)

	where, args := buildFilterClause(filter)

	countQuery := `SELECT COUNT(1) FROM orders o` + where
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count orders", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT
			o.id,
			o.order_number,
			o.status,
			o.total,
			s.name,
			s.category,
			(SELECT COUNT(1) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
			o.estimated_delivery_time,
			o.created_at
		FROM orders o
		JOIN stores s ON s.id = o.store_id` + where +
		fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []*OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(
			&s.ID,
			&s.OrderNumber,
			&s.Status,
			&s.Total,
			&s.StoreName,
			&s.StoreCategory,
			&s.ItemCount,
			&s.EstimatedDeliveryTime,
			&s.CreatedAt,
		); err != nil {
			log.Error("failed to scan order summary", zap.Error(err))
			return nil, 0, err
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, 0, err
	}

	log.Debug("orders listed", zap.Int("count", len(summaries)), zap.Int64("total", total))

	return summaries, total, nil
}

// buildFilterClause renders the WHERE clause shared by the count and list
// queries, with 1-based $n placeholders.
func buildFilterClause(filter *OrderFilter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}

	if filter == nil {
		return where, args
	}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where += fmt.Sprintf(" AND o.customer_id = $%d", len(args))
	}
	if filter.StoreID != nil {
		args = append(args, *filter.StoreID)
		where += fmt.Sprintf(" AND o.store_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND o.status = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where += fmt.Sprintf(" AND o.created_at <= $%d", len(args))
	}

	return where, args
}

func (r *repository) BelongsToCustomer(ctx context.Context, id, customerID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND customer_id = $2)
	`, id, customerID).Scan(&ok)
	return ok, err
}

func (r *repository) BelongsToStore(ctx context.Context, id, storeID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND store_id = $2)
	`, id, storeID).Scan(&ok)
	return ok, err
}
