package handler

import (
	"errors"
	"net/http"
	"time"

	"kedai-be/internal/auth"
	"kedai-be/internal/catalog"
	"kedai-be/internal/logger"
	"kedai-be/internal/middleware"
	"kedai-be/internal/order"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc      order.Service
	validate *validatorv10.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: validatorv10.New(),
	}
}

// RegisterRoutes mounts the order endpoints. Every route requires an
// authenticated actor.
func (h *OrderHandler) RegisterRoutes(r gin.IRouter) {
	orders := r.Group("/orders", middleware.RequireActor())
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id/status", h.UpdateStatus)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFrom(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CreateOrderRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.CreateOrder(ctx, actor, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFrom(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.svc.GetOrderDetails(ctx, actor, orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFrom(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if err := h.validate.Struct(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validationFields(err)})
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, limit := query.Page, query.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	summaries, total, err := h.svc.ListOrders(ctx, actor, filter, page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	orders := make([]OrderSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		orders = append(orders, toSummaryResponse(s))
	}

	if limit > 100 {
		limit = 100
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, ListOrdersResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFrom(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req UpdateStatusRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	requested, err := order.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.UpdateOrderStatus(ctx, actor, orderID, requested, req.Notes)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(o))
}

// bindAndValidate binds the JSON body and runs struct validation, writing a
// 400 response on failure so the handler can just return.
func (h *OrderHandler) bindAndValidate(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return err
	}

	if err := h.validate.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": validationFields(err),
		})
		return err
	}

	return nil
}

func validationFields(err error) map[string]string {
	fields := map[string]string{}

	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.StructNamespace()] = fe.Tag()
		}
	} else {
		fields["error"] = err.Error()
	}

	return fields
}

func (h *OrderHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, catalog.ErrStoreNotFound),
		errors.Is(err, catalog.ErrMenuItemNotFound):
		status = http.StatusNotFound

	case errors.Is(err, order.ErrValidation):
		status = http.StatusBadRequest

	case errors.Is(err, order.ErrForbidden):
		status = http.StatusForbidden

	case errors.Is(err, order.ErrInvalidStatusTransition):
		status = http.StatusConflict

	case errors.Is(err, order.ErrItemUnavailable),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrMinimumOrderNotMet),
		errors.Is(err, order.ErrMaximumOrderExceeded):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func (r CreateOrderRequest) toInput() (order.CreateOrderInput, error) {
	storeID, err := uuid.Parse(r.StoreID)
	if err != nil {
		return order.CreateOrderInput{}, errors.New("invalid store id")
	}

	items := make([]order.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return order.CreateOrderInput{}, errors.New("invalid menu item id")
		}
		items = append(items, order.LineItem{
			MenuItemID:          menuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	return order.CreateOrderInput{
		StoreID:         storeID,
		Items:           items,
		PaymentMethod:   order.PaymentMethod(r.PaymentMethod),
		DeliveryAddress: r.DeliveryAddress,
		CustomerPhone:   r.CustomerPhone,
		Notes:           r.Notes,
	}, nil
}

func (q ListOrdersQuery) toFilter() (order.OrderFilter, error) {
	var filter order.OrderFilter

	if q.StoreID != "" {
		storeID, err := uuid.Parse(q.StoreID)
		if err != nil {
			return filter, errors.New("invalid store id")
		}
		filter.StoreID = &storeID
	}

	if q.Status != "" {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if q.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, q.DateFrom)
		if err != nil {
			return filter, errors.New("invalid date_from, expected RFC 3339")
		}
		filter.DateFrom = &from
	}

	if q.DateTo != "" {
		to, err := time.Parse(time.RFC3339, q.DateTo)
		if err != nil {
			return filter, errors.New("invalid date_to, expected RFC 3339")
		}
		filter.DateTo = &to
	}

	return filter, nil
}
