package model

import "time"

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentCard, PaymentBankTransfer:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
	StatusRefunded  OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

type Customer struct {
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	Notes   string `json:"notes,omitempty" bson:"notes,omitempty"`
}

type Totals struct {
	Items    int     `json:"items" bson:"items"`
	Subtotal float64 `json:"subtotal" bson:"subtotal"`
	Shipping float64 `json:"shipping" bson:"shipping"`
	Currency string  `json:"currency" bson:"currency"`
}

// LineItem references either a product or a bundle, never both.
type LineItem struct {
	ProductID string  `json:"product_id,omitempty" bson:"product_id,omitempty"`
	BundleID  string  `json:"bundle_id,omitempty" bson:"bundle_id,omitempty"`
	Title     string  `json:"title" bson:"title"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
}

// Order is the unit of persistence. After creation only Status and
// UpdatedAt may change; CreatedAt is the canonical ordering key.
type Order struct {
	ID            string        `json:"id" bson:"_id"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
	Status        OrderStatus   `json:"status" bson:"status"`
	Totals        Totals        `json:"totals" bson:"totals"`
	Customer      Customer      `json:"customer" bson:"customer"`
	Items         []LineItem    `json:"items" bson:"items"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// Clone returns a deep copy so repositories can hand out detached
// representations instead of references into their own state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Items != nil {
		cp.Items = make([]LineItem, len(o.Items))
		copy(cp.Items, o.Items)
	}
	return &cp
}

// OrderView is the caller-facing shape of an order: the receipt fields
// without the customer record.
type OrderView struct {
	ID            string        `json:"id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        OrderStatus   `json:"status"`
	Totals        Totals        `json:"totals"`
	Items         []LineItem    `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (o *Order) View() *OrderView {
	if o == nil {
		return nil
	}
	items := make([]LineItem, len(o.Items))
	copy(items, o.Items)
	return &OrderView{
		ID:            o.ID,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Totals:        o.Totals,
		Items:         items,
		CreatedAt:     o.CreatedAt,
	}
}
