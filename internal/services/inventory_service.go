package services

import (
	"database/sql"

	"onlineshop/internal/domain"
	"onlineshop/internal/repos"

	"github.com/jmoiron/sqlx"
)

// InventoryService guards every stock mutation. Both paths funnel into a
// single guarded UPDATE per product row, which is what keeps concurrent
// placements from jointly overselling.
type InventoryService struct {
	db    *sqlx.DB
	Prods *repos.ProductRepo
}

func NewInventoryService(db *sqlx.DB, prods *repos.ProductRepo) *InventoryService {
	return &InventoryService{db: db, Prods: prods}
}

func (s *InventoryService) HasSufficientStock(p domain.Product, qty int) bool {
	return p.HasSufficientStock(qty)
}

// ReduceStock decrements stock for one product or fails with
// InsufficientStockError; the product name in the error is the caller's
// display name for the line. No partial decrement is possible.
func (s *InventoryService) ReduceStock(e sqlx.Execer, productID, productName string, qty int) error {
	ok, err := s.Prods.ReduceStock(e, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return &InsufficientStockError{Product: productName}
	}
	return nil
}

// IncreaseStock restores stock, flipping OUT_OF_STOCK back to ACTIVE.
// INACTIVE products keep their status.
func (s *InventoryService) IncreaseStock(e sqlx.Execer, productID string, qty int) error {
	return s.Prods.IncreaseStock(e, productID, qty)
}

// Restock is the admin entry point for adding stock outside a cancellation.
func (s *InventoryService) Restock(productID string, qty int) (domain.Product, error) {
	if _, err := s.Prods.Get(productID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, err
	}
	if err := s.Prods.IncreaseStock(s.db, productID, qty); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(productID)
}
