package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine joins a cart item with the live product row; Price and StockQty are
// the product's current values at read time, not a snapshot.
type CartLine struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	StockQty  int             `db:"stock_quantity" json:"-"`
	Status    string          `db:"status" json:"-"`
	Quantity  int             `db:"quantity" json:"quantity"`
}

func (r *CartRepo) ItemsForUser(userID string) ([]CartLine, error) {
	var out []CartLine
	err := r.db.Select(&out, `
	  SELECT ci.product_id, p.name, p.price, p.stock_quantity, p.status, ci.quantity
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.added_at
	`, userID)
	return out, err
}

// Upsert adds qty to an existing line or creates the line.
func (r *CartRepo) Upsert(userID, productID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(user_id, product_id, quantity, added_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity
	`, userID, productID, qty)
	return err
}

// SetQuantity overwrites the quantity of an existing line. Returns false when
// the line does not exist.
func (r *CartRepo) SetQuantity(userID, productID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?
	`, qty, userID, productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) Remove(userID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (r *CartRepo) Clear(userID string) error {
	return r.clear(r.db, userID)
}

// ClearTx clears the cart inside the order-placement transaction so the cart
// only empties if the order commits.
func (r *CartRepo) ClearTx(tx *sqlx.Tx, userID string) error {
	return r.clear(tx, userID)
}

func (r *CartRepo) clear(e sqlx.Execer, userID string) error {
	_, err := e.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

func (r *CartRepo) Count(userID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COALESCE(SUM(quantity),0) FROM cart_items WHERE user_id = ?`, userID)
	return n, err
}
