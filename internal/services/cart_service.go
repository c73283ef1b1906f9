package services

import (
	"database/sql"

	"onlineshop/internal/repos"

	"github.com/shopspring/decimal"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts qty units of a product into the user's cart, merging with an
// existing line. The stock check here is advisory; the binding check happens
// again at placement time under the transaction.
func (s *CartService) Add(userID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		return err
	}
	if !p.HasSufficientStock(qty) {
		return &InsufficientStockError{Product: p.Name}
	}
	return s.Carts.Upsert(userID, productID, qty)
}

// UpdateQuantity overwrites a line's quantity.
func (s *CartService) UpdateQuantity(userID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		return err
	}
	if !p.HasSufficientStock(qty) {
		return &InsufficientStockError{Product: p.Name}
	}
	ok, err := s.Carts.SetQuantity(userID, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) Remove(userID, productID string) error {
	return s.Carts.Remove(userID, productID)
}

func (s *CartService) Clear(userID string) error {
	return s.Carts.Clear(userID)
}

// Count returns the summed quantity across all lines.
func (s *CartService) Count(userID string) (int, error) {
	return s.Carts.Count(userID)
}

type CartView struct {
	Items []CartViewLine  `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type CartViewLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	InStock   bool            `json:"in_stock"`
}

// View lists the cart with per-line subtotals at current product prices.
func (s *CartService) View(userID string) (CartView, error) {
	lines, err := s.Carts.ItemsForUser(userID)
	if err != nil {
		return CartView{}, err
	}
	view := CartView{Items: []CartViewLine{}, Total: decimal.Zero}
	for _, ln := range lines {
		sub := ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity)))
		view.Items = append(view.Items, CartViewLine{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Price:     ln.Price,
			Quantity:  ln.Quantity,
			Subtotal:  sub,
			InStock:   ln.StockQty >= ln.Quantity,
		})
		view.Total = view.Total.Add(sub)
		view.Count += ln.Quantity
	}
	return view, nil
}
