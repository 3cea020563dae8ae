package handler

import (
	"time"

	"kedai-be/internal/order"
)

type CreateOrderRequest struct {
	StoreID         string            `json:"store_id" validate:"required,uuid"`
	Items           []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string            `json:"payment_method" validate:"required,oneof=CASH CARD E_WALLET"`
	DeliveryAddress string            `json:"delivery_address" validate:"required"`
	CustomerPhone   string            `json:"customer_phone" validate:"required"`
	Notes           *string           `json:"notes,omitempty"`
}

type LineItemRequest struct {
	MenuItemID          string  `json:"menu_item_id" validate:"required,uuid"`
	Quantity            int     `json:"quantity" validate:"required,min=1,max=50"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty"`
}

// ListOrdersQuery binds the list filters from the query string. Dates are
// RFC 3339.
type ListOrdersQuery struct {
	StoreID  string `form:"store_id" validate:"omitempty,uuid"`
	Status   string `form:"status"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int32  `form:"page"`
	Limit    int32  `form:"limit"`
}

type OrderItemResponse struct {
	ID                  string  `json:"id"`
	MenuItemID          string  `json:"menu_item_id"`
	ItemName            string  `json:"item_name"`
	Quantity            int     `json:"quantity"`
	UnitPrice           int64   `json:"unit_price"`
	TotalPrice          int64   `json:"total_price"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

type OrderResponse struct {
	ID                    string              `json:"id"`
	OrderNumber           string              `json:"order_number"`
	CustomerID            string              `json:"customer_id"`
	StoreID               string              `json:"store_id"`
	Status                string              `json:"status"`
	Subtotal              int64               `json:"subtotal"`
	DeliveryFee           int64               `json:"delivery_fee"`
	Tax                   int64               `json:"tax"`
	Total                 int64               `json:"total"`
	PaymentMethod         string              `json:"payment_method"`
	DeliveryAddress       string              `json:"delivery_address"`
	CustomerPhone         string              `json:"customer_phone"`
	Notes                 *string             `json:"notes,omitempty"`
	EstimatedDeliveryTime *time.Time          `json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time          `json:"actual_delivery_time,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
	Items                 []OrderItemResponse `json:"items"`
}

type OrderSummaryResponse struct {
	ID                    string     `json:"id"`
	OrderNumber           string     `json:"order_number"`
	Status                string     `json:"status"`
	Total                 int64      `json:"total"`
	StoreName             string     `json:"store_name"`
	StoreCategory         string     `json:"store_category"`
	ItemCount             int        `json:"item_count"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

type Pagination struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type ListOrdersResponse struct {
	Orders     []OrderSummaryResponse `json:"orders"`
	Pagination Pagination             `json:"pagination"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:                  item.ID.String(),
			MenuItemID:          item.MenuItemID.String(),
			ItemName:            item.ItemName,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	return OrderResponse{
		ID:                    o.ID.String(),
		OrderNumber:           o.OrderNumber,
		CustomerID:            o.CustomerID.String(),
		StoreID:               o.StoreID.String(),
		Status:                string(o.Status),
		Subtotal:              o.Subtotal,
		DeliveryFee:           o.DeliveryFee,
		Tax:                   o.Tax,
		Total:                 o.Total,
		PaymentMethod:         string(o.PaymentMethod),
		DeliveryAddress:       o.DeliveryAddress,
		CustomerPhone:         o.CustomerPhone,
		Notes:                 o.Notes,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		ActualDeliveryTime:    o.ActualDeliveryTime,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		Items:                 items,
	}
}

func toSummaryResponse(s *order.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:                    s.ID.String(),
		OrderNumber:           s.OrderNumber,
		Status:                string(s.Status),
		Total:                 s.Total,
		StoreName:             s.StoreName,
		StoreCategory:         s.StoreCategory,
		ItemCount:             s.ItemCount,
		EstimatedDeliveryTime: s.EstimatedDeliveryTime,
		CreatedAt:             s.CreatedAt,
	}
}
