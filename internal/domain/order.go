package domain

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Order status values.
const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

// Payment status values.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the known payment statuses.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type Order struct {
	ID                string          `db:"id" json:"id"`
	OrderNumber       string          `db:"order_number" json:"order_number"`
	UserID            string          `db:"user_id" json:"user_id"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status            string          `db:"status" json:"status"`
	ShippingAddress   string          `db:"shipping_address" json:"shipping_address"`
	BillingAddress    string          `db:"billing_address" json:"billing_address"`
	PaymentMethod     string          `db:"payment_method" json:"payment_method"`
	PaymentStatus     string          `db:"payment_status" json:"payment_status"`
	Notes             string          `db:"notes" json:"notes,omitempty"`
	ConfirmationToken string          `db:"confirmation_token" json:"-"`
	ConfirmedAt       sql.NullString  `db:"confirmed_at" json:"confirmed_at,omitempty"`
	CreatedAt         string          `db:"created_at" json:"created_at"`
	UpdatedAt         string          `db:"updated_at" json:"updated_at,omitempty"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// Confirmed reports whether the delivery confirmation token has been redeemed.
func (o Order) Confirmed() bool { return o.ConfirmedAt.Valid }

// OrderItem snapshots product name and price at order time; later product
// edits never change it.
type OrderItem struct {
	ID           string          `db:"id" json:"id"`
	OrderID      string          `db:"order_id" json:"order_id"`
	ProductID    string          `db:"product_id" json:"product_id"`
	ProductName  string          `db:"product_name" json:"product_name"`
	ProductPrice decimal.Decimal `db:"product_price" json:"product_price"`
	Quantity     int             `db:"quantity" json:"quantity"`
	Subtotal     decimal.Decimal `db:"subtotal" json:"subtotal"`
}
