package domain

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Product status values.
const (
	ProductActive     = "ACTIVE"
	ProductInactive   = "INACTIVE"
	ProductOutOfStock = "OUT_OF_STOCK"
)

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Product struct {
	ID          string          `db:"id" json:"id"`
	CategoryID  string          `db:"category_id" json:"category_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description,omitempty"`
	SKU         string          `db:"sku" json:"sku"`
	Price       decimal.Decimal `db:"price" json:"price"`
	StockQty    int             `db:"stock_quantity" json:"stock_quantity"`
	Status      string          `db:"status" json:"status"` // ACTIVE | INACTIVE | OUT_OF_STOCK
	ImageURL    string          `db:"image_url" json:"image_url,omitempty"`
	CreatedBy   string          `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	UpdatedAt   string          `db:"updated_at" json:"updated_at,omitempty"`
}

// HasSufficientStock reports whether the product can cover the requested quantity.
func (p Product) HasSufficientStock(qty int) bool {
	return p.StockQty >= qty
}

// CartItem is one (user, product) line; quantity is at least 1.
type CartItem struct {
	UserID    string `db:"user_id" json:"user_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	AddedAt   string `db:"added_at" json:"added_at"`
}

type ActivityLog struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Type      string         `db:"activity_type"`
	Details   string         `db:"activity_details"`
	IPAddress sql.NullString `db:"ip_address"`
	UserAgent sql.NullString `db:"user_agent"`
	CreatedAt string         `db:"created_at"`
}
