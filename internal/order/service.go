package order

import (
	"context"
	"fmt"
	"time"

	"kedai-be/internal/auth"
	"kedai-be/internal/catalog"
	"kedai-be/internal/logger"
	"kedai-be/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, actor auth.Actor, input CreateOrderInput) (*Order, error)
	GetOrderDetails(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, actor auth.Actor, filter OrderFilter, page, limit int32) ([]*OrderSummary, int64, error)
	UpdateOrderStatus(ctx context.Context, actor auth.Actor, orderID uuid.UUID, requested Status, notes *string) (*Order, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Reader
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(repo Repository, cat catalog.Reader, notifier notify.Notifier) Service {
	return &service{
		repo:     repo,
		catalog:  cat,
		notifier: notifier,
		now:      time.Now,
	}
}

// retryBackoff is the pause before the single retry of a transient
// persistence failure.
const retryBackoff = 100 * time.Millisecond

func (s *service) CreateOrder(ctx context.Context, actor auth.Actor, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.String("customer_id", actor.ID.String()),
		zap.String("store_id", input.StoreID.String()),
		zap.Int("item_count", len(input.Items)),
	)

	log.Info("create order started")

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, input.PaymentMethod)
	}
	if input.DeliveryAddress == "" || input.CustomerPhone == "" {
		return nil, fmt.Errorf("%w: delivery address and phone are required", ErrValidation)
	}

	// 1. Store must exist and be taking orders.
	store, err := s.catalog.GetStore(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	if !store.IsActive {
		log.Warn("store is not accepting orders")
		return nil, catalog.ErrStoreNotFound
	}

	// 2. Every referenced menu item must exist and belong to the store.
	menu := make(map[uuid.UUID]*catalog.MenuItem, len(input.Items))
	for _, line := range input.Items {
		item, err := s.catalog.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if item.StoreID != input.StoreID {
			return nil, fmt.Errorf("%w: menu item %s does not belong to store", ErrValidation, line.MenuItemID)
		}
		menu[item.ID] = item
	}

	// 3. Price the order. Pricing failures propagate unchanged.
	pricing, err := ComputePricing(input.Items, menu, store.DeliveryFee, store.MinimumOrder)
	if err != nil {
		log.Warn("pricing rejected order", zap.Error(err))
		return nil, err
	}

	log.Info("price calculated",
		zap.Int64("subtotal", pricing.Subtotal),
		zap.Int64("tax", pricing.Tax),
		zap.Int64("delivery_fee", pricing.DeliveryFee),
		zap.Int64("total", pricing.Total),
	)

	now := s.now().UTC()
	eta := now.Add(time.Duration(store.EstimatedDeliveryMinutes) * time.Minute)

	o := &Order{
		ID:                    uuid.New(),
		CustomerID:            actor.ID,
		StoreID:               store.ID,
		Status:                StatusNew,
		Subtotal:              pricing.Subtotal,
		DeliveryFee:           pricing.DeliveryFee,
		Tax:                   pricing.Tax,
		Total:                 pricing.Total,
		PaymentMethod:         input.PaymentMethod,
		DeliveryAddress:       input.DeliveryAddress,
		CustomerPhone:         input.CustomerPhone,
		Notes:                 input.Notes,
		EstimatedDeliveryTime: &eta,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	for _, line := range input.Items {
		menuItem := menu[line.MenuItemID]
		o.Items = append(o.Items, OrderItem{
			ID:                  uuid.New(),
			OrderID:             o.ID,
			MenuItemID:          menuItem.ID,
			ItemName:            menuItem.Name,
			Quantity:            line.Quantity,
			UnitPrice:           menuItem.Price,
			TotalPrice:          menuItem.Price * int64(line.Quantity),
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	// 4. Persist atomically; one retry for transient conflicts only.
	if err := s.repo.CreateWithItems(ctx, o); err != nil {
		if !IsTransientPersistence(err) {
			log.Error("order creation failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		log.Warn("transient failure, retrying order creation", zap.Error(err))
		time.Sleep(retryBackoff)

		if err := s.repo.CreateWithItems(ctx, o); err != nil {
			log.Error("order creation failed after retry", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	s.emit(ctx, o)

	log.Info("order created", zap.String("order_number", o.OrderNumber))

	return o, nil
}

func (s *service) GetOrderDetails(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*Order, error) {
	o, err := s.repo.FindByIDWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeRead(ctx, actor, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *service) ListOrders(
	ctx context.Context,
	actor auth.Actor,
	filter OrderFilter,
	page, limit int32,
) ([]*OrderSummary, int64, error) {

	switch actor.Role {
	case auth.RoleCustomer:
		// Customers only ever see their own orders, whatever the filter says.
		filter.CustomerID = &actor.ID

	case auth.RoleStoreOwner:
		if filter.StoreID == nil {
			return nil, 0, fmt.Errorf("%w: store_id is required", ErrValidation)
		}
		owns, err := s.ownsStore(ctx, actor, *filter.StoreID)
		if err != nil {
			return nil, 0, err
		}
		if !owns {
			return nil, 0, ErrForbidden
		}

	case auth.RoleAdmin:
		// unrestricted

	default:
		return nil, 0, ErrForbidden
	}

	return s.repo.FindMany(ctx, &filter, page, limit)
}

func (s *service) UpdateOrderStatus(
	ctx context.Context,
	actor auth.Actor,
	orderID uuid.UUID,
	requested Status,
	notes *string,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_id", orderID.String()),
		zap.String("requested", string(requested)),
		zap.String("role", string(actor.Role)),
	)

	if !requested.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, requested)
	}

	o, err := s.repo.FindByIDWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ownsStore := false
	if actor.Role == auth.RoleStoreOwner {
		ownsStore, err = s.ownsStore(ctx, actor, o.StoreID)
		if err != nil {
			return nil, err
		}
	}

	if err := AuthorizeTransition(actor, o, ownsStore, requested); err != nil {
		log.Warn("transition rejected", zap.String("current", string(o.Status)), zap.Error(err))
		return nil, err
	}

	// DELIVERED is the only transition with a side effect on the row beyond
	// status and notes.
	var deliveredAt *time.Time
	if requested == StatusDelivered {
		t := s.now().UTC()
		deliveredAt = &t
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, o.Status, requested, notes, deliveredAt)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, updated)

	log.Info("order transitioned", zap.String("from", string(o.Status)))

	return updated, nil
}

func (s *service) authorizeRead(ctx context.Context, actor auth.Actor, o *Order) error {
	switch actor.Role {
	case auth.RoleCustomer:
		if o.CustomerID != actor.ID {
			return ErrForbidden
		}
	case auth.RoleStoreOwner:
		owns, err := s.ownsStore(ctx, actor, o.StoreID)
		if err != nil {
			return err
		}
		if !owns {
			return ErrForbidden
		}
	case auth.RoleAdmin:
		// unrestricted
	default:
		return ErrForbidden
	}
	return nil
}

func (s *service) ownsStore(ctx context.Context, actor auth.Actor, storeID uuid.UUID) (bool, error) {
	store, err := s.catalog.GetStore(ctx, storeID)
	if err != nil {
		return false, err
	}
	return store.OwnerID == actor.ID, nil
}

// emit is fire-and-forget: a failed publish is logged and never surfaces to
// the caller.
func (s *service) emit(ctx context.Context, o *Order) {
	event := notify.Event{
		OrderID:               o.ID,
		OrderNumber:           o.OrderNumber,
		Status:                string(o.Status),
		CustomerID:            o.CustomerID,
		StoreID:               o.StoreID,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
	}

	if err := s.notifier.Publish(ctx, event); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish order event",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
}
