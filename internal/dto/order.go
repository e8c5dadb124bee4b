package dto

import "storefront-orders/internal/model"

type CustomerPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

type LineItemPayload struct {
	ProductID string  `json:"product_id"`
	BundleID  string  `json:"bundle_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type TotalsPayload struct {
	Items    int     `json:"items"`
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Currency string  `json:"currency"`
}

type CreateOrderRequest struct {
	PaymentMethod string            `json:"payment_method"`
	Customer      CustomerPayload   `json:"customer"`
	Items         []LineItemPayload `json:"items"`
	Totals        TotalsPayload     `json:"totals"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateOrderResponse struct {
	Order *model.OrderView `json:"order"`
}

type ListOrdersResponse struct {
	Orders []*model.Order `json:"orders"`
}
