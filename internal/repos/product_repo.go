package repos

import (
	"onlineshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, category_id, name, COALESCE(description,'') AS description, COALESCE(sku,'') AS sku,
  price, stock_quantity, status, COALESCE(image_url,'') AS image_url,
  COALESCE(created_by,'') AS created_by, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category_id = ? AND status != 'INACTIVE'
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

func (r *ProductRepo) Search(q, catID string, limit, offset int) ([]domain.Product, error) {
	where := `status != 'INACTIVE'`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}

	query := `SELECT ` + productCols + ` FROM products WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}

// ReduceStock subtracts qty if and only if enough stock exists, in a single
// guarded UPDATE so the check and the decrement cannot interleave with a
// concurrent order. When the remaining quantity hits zero the status flips to
// OUT_OF_STOCK in the same statement. Returns false when the guard rejected
// the decrement.
func (r *ProductRepo) ReduceStock(e sqlx.Execer, productID string, qty int) (bool, error) {
	res, err := e.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?,
		    status = CASE WHEN stock_quantity - ? = 0 THEN 'OUT_OF_STOCK' ELSE status END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity >= ?
	`, qty, qty, productID, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncreaseStock adds qty back. A product that was OUT_OF_STOCK becomes ACTIVE
// again; a manually deactivated (INACTIVE) product stays INACTIVE so a
// cancellation cannot silently re-list it.
func (r *ProductRepo) IncreaseStock(e sqlx.Execer, productID string, qty int) error {
	_, err := e.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?,
		    status = CASE WHEN status = 'OUT_OF_STOCK' AND stock_quantity + ? > 0
		                  THEN 'ACTIVE' ELSE status END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, qty, productID)
	return err
}
