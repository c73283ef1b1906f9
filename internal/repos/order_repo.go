package repos

import (
	"onlineshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, order_number, user_id, total_amount, status, shipping_address,
  COALESCE(billing_address,'') AS billing_address, COALESCE(payment_method,'') AS payment_method,
  payment_status, COALESCE(notes,'') AS notes, COALESCE(confirmation_token,'') AS confirmation_token,
  confirmed_at, created_at, COALESCE(updated_at,'') AS updated_at`

// Create inserts the order header and all line items. Runs inside the
// placement transaction alongside the stock decrements.
func (r *OrderRepo) Create(tx *sqlx.Tx, o *domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, order_number, user_id, total_amount, status, shipping_address, billing_address,
	     payment_method, payment_status, notes, confirmation_token, created_at, updated_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
	`, o.ID, o.OrderNumber, o.UserID, o.TotalAmount, o.Status, o.ShippingAddress,
		o.BillingAddress, o.PaymentMethod, o.PaymentStatus, o.Notes, o.ConfirmationToken)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(id, order_id, product_id, product_name, product_price, quantity, subtotal)
		  VALUES (?,?,?,?,?,?,?)
		`, it.ID, it.OrderID, it.ProductID, it.ProductName, it.ProductPrice, it.Quantity, it.Subtotal); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	return r.get(r.db, orderID)
}

func (r *OrderRepo) GetTx(tx *sqlx.Tx, orderID string) (domain.Order, error) {
	return r.get(tx, orderID)
}

func (r *OrderRepo) get(q sqlx.Queryer, orderID string) (domain.Order, error) {
	var o domain.Order
	if err := sqlx.Get(q, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, err
	}
	items, err := r.items(q, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) ByNumber(number string) (domain.Order, error) {
	var id string
	if err := r.db.Get(&id, `SELECT id FROM orders WHERE order_number = ?`, number); err != nil {
		return domain.Order{}, err
	}
	return r.Get(id)
}

// ByTokenTx resolves the order holding a confirmation token. sql.ErrNoRows
// means no order owns the token.
func (r *OrderRepo) ByTokenTx(tx *sqlx.Tx, token string) (domain.Order, error) {
	var o domain.Order
	err := tx.Get(&o, `SELECT `+orderCols+` FROM orders WHERE confirmation_token = ?`, token)
	return o, err
}

func (r *OrderRepo) items(q sqlx.Queryer, orderID string) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := sqlx.Select(q, &items, `
	  SELECT id, order_id, product_id, product_name, product_price, quantity, subtotal
	  FROM order_items WHERE order_id = ?
	  ORDER BY product_name
	`, orderID)
	return items, err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListByStatus(status string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  WHERE status = ?
	  ORDER BY datetime(created_at) DESC
	`, status)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) UpdateStatusTx(tx *sqlx.Tx, orderID, status string) error {
	_, err := tx.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, orderID)
	return err
}

func (r *OrderRepo) UpdateStatus(orderID, status string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, orderID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpdatePaymentStatus sets the payment status; a successful payment also moves
// the order to PROCESSING in the same statement.
func (r *OrderRepo) UpdatePaymentStatus(orderID, paymentStatus string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE orders
	  SET payment_status = ?,
	      status = CASE WHEN ? = 'PAID' THEN 'PROCESSING' ELSE status END,
	      updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, paymentStatus, paymentStatus, orderID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ConfirmTx performs the one-time delivery confirmation: the guard on
// confirmed_at makes sure only the first redemption of a token wins.
func (r *OrderRepo) ConfirmTx(tx *sqlx.Tx, orderID string) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE orders
	  SET confirmed_at = CURRENT_TIMESTAMP,
	      payment_status = 'PAID',
	      status = 'DELIVERED',
	      updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND confirmed_at IS NULL
	`, orderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
