package services

import (
	"database/sql"
	"strings"

	"onlineshop/internal/domain"
	"onlineshop/internal/repos"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// OrderService owns the order-placement workflow and the order lifecycle.
// Placement, cancellation and delivery confirmation each run as one
// transaction: every stock mutation commits or rolls back together with the
// order rows it belongs to.
type OrderService struct {
	db       *sqlx.DB
	Users    *repos.UserRepo
	Carts    *repos.CartRepo
	Orders   *repos.OrderRepo
	Inv      *InventoryService
	Activity *ActivityService
	Mailer   *Mailer
}

func NewOrderService(db *sqlx.DB, users *repos.UserRepo, carts *repos.CartRepo,
	orders *repos.OrderRepo, inv *InventoryService, activity *ActivityService, mailer *Mailer) *OrderService {
	return &OrderService{db: db, Users: users, Carts: carts, Orders: orders,
		Inv: inv, Activity: activity, Mailer: mailer}
}

// NewOrderNumber returns a human-facing order identifier: ORD- plus eight
// uppercase hex characters drawn from a fresh UUID.
func NewOrderNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:8])
}

// Place converts the user's cart into a persisted order. Stock decrements,
// order insert and cart clearing happen in a single transaction; a failed
// line rolls back every decrement made before it. The confirmation email and
// the activity record run after commit and never fail the placement.
func (s *OrderService) Place(userID, shippingAddress, paymentMethod, notes string) (*domain.Order, error) {
	user, err := s.Users.ByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	lines, err := s.Carts.ItemsForUser(userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     NewOrderNumber(),
		UserID:          userID,
		TotalAmount:     decimal.Zero,
		Status:          domain.OrderPending,
		ShippingAddress: shippingAddress,
		// billing defaults to the shipping address
		BillingAddress:    shippingAddress,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     domain.PaymentPending,
		Notes:             notes,
		ConfirmationToken: uuid.NewString(),
	}

	err = repos.InTx(s.db, func(tx *sqlx.Tx) error {
		for _, ln := range lines {
			// check-and-decrement is one guarded statement per product
			if err := s.Inv.ReduceStock(tx, ln.ProductID, ln.Name, ln.Quantity); err != nil {
				return err
			}
			item := domain.OrderItem{
				ID:           uuid.NewString(),
				OrderID:      order.ID,
				ProductID:    ln.ProductID,
				ProductName:  ln.Name,
				ProductPrice: ln.Price,
				Quantity:     ln.Quantity,
				Subtotal:     ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))),
			}
			order.Items = append(order.Items, item)
			order.TotalAmount = order.TotalAmount.Add(item.Subtotal)
		}
		if err := s.Orders.Create(tx, order); err != nil {
			return err
		}
		return s.Carts.ClearTx(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	placed, err := s.Orders.Get(order.ID)
	if err != nil {
		return nil, err
	}

	s.Activity.Record(userID, ActivityPlaceOrder, "placed order "+placed.OrderNumber)
	s.Mailer.SendOrderConfirmation(user, &placed)
	return &placed, nil
}

// ConfirmDelivery redeems a confirmation token. The guard on confirmed_at
// makes the transition one-way: the first redemption sets DELIVERED/PAID,
// every later attempt gets ErrAlreadyConfirmed.
func (s *OrderService) ConfirmDelivery(token string) (*domain.Order, error) {
	var confirmed domain.Order
	err := repos.InTx(s.db, func(tx *sqlx.Tx) error {
		o, err := s.Orders.ByTokenTx(tx, token)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrInvalidToken
			}
			return err
		}
		if o.Confirmed() {
			return ErrAlreadyConfirmed
		}
		ok, err := s.Orders.ConfirmTx(tx, o.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyConfirmed
		}
		confirmed, err = s.Orders.GetTx(tx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Activity.Record(confirmed.UserID, ActivityConfirmDelivery, "confirmed delivery of "+confirmed.OrderNumber)
	return &confirmed, nil
}

// Cancel restores stock for every line and marks the order CANCELLED, all in
// one transaction. Orders that already shipped (or were already cancelled)
// cannot be cancelled.
func (s *OrderService) Cancel(orderID string) (*domain.Order, error) {
	var cancelled domain.Order
	err := repos.InTx(s.db, func(tx *sqlx.Tx) error {
		o, err := s.Orders.GetTx(tx, orderID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrOrderNotFound
			}
			return err
		}
		switch o.Status {
		case domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled:
			return ErrCancellationNotAllowed
		}
		for _, it := range o.Items {
			if err := s.Inv.IncreaseStock(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := s.Orders.UpdateStatusTx(tx, orderID, domain.OrderCancelled); err != nil {
			return err
		}
		cancelled, err = s.Orders.GetTx(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Activity.Record(cancelled.UserID, ActivityCancelOrder, "cancelled order "+cancelled.OrderNumber)
	return &cancelled, nil
}

// UpdateStatus sets an order status. CANCELLED is routed through Cancel so
// the stock restitution always runs with its guard.
func (s *OrderService) UpdateStatus(orderID, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	if status == domain.OrderCancelled {
		return s.Cancel(orderID)
	}
	ok, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if status == domain.OrderShipped {
		s.Activity.Record(o.UserID, ActivityOrderShipped, "order shipped: "+o.OrderNumber)
	}
	return &o, nil
}

// UpdatePaymentStatus sets the payment label; PAID also moves the order to
// PROCESSING (payment confirmation side effect, independent of the delivery
// handshake).
func (s *OrderService) UpdatePaymentStatus(orderID, paymentStatus string) (*domain.Order, error) {
	if !domain.ValidPaymentStatus(paymentStatus) {
		return nil, ErrInvalidStatus
	}
	ok, err := s.Orders.UpdatePaymentStatus(orderID, paymentStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if paymentStatus == domain.PaymentPaid {
		s.Activity.Record(o.UserID, ActivityPaymentPaid, "payment received for "+o.OrderNumber)
	}
	return &o, nil
}

func (s *OrderService) Get(orderID string) (*domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) GetByNumber(number string) (*domain.Order, error) {
	o, err := s.Orders.ByNumber(number)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) UserOrders(userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}

func (s *OrderService) OrdersByStatus(status string) ([]domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.Orders.ListByStatus(status)
}

func (s *OrderService) AllOrders(limit int) ([]domain.Order, error) {
	return s.Orders.ListLatest(limit)
}
