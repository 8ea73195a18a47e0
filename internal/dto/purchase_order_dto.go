package dto

import "github.com/shopspring/decimal"

type CreateLineItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	QuantityOrdered int             `json:"quantity_ordered" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price" validate:"min=0"`
}

type CreatePurchaseOrderRequest struct {
	OrderNumber string                  `json:"order_number" validate:"required"`
	Supplier    string                  `json:"supplier" validate:"required"`
	Items       []CreateLineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type LineItemResponse struct {
	ID              string          `json:"id"`
	PurchaseOrderID string          `json:"purchase_order_id"`
	ProductID       string          `json:"product_id"`
	QuantityOrdered int             `json:"quantity_ordered"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

type PurchaseOrderResponse struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"order_number"`
	Supplier    string             `json:"supplier"`
	Status      string             `json:"status"`
	Items       []LineItemResponse `json:"items"`
	CreatedAt   string             `json:"created_at"`
}

type PurchaseOrderFilter struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type PurchaseOrderListResponse struct {
	Data  []PurchaseOrderResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
