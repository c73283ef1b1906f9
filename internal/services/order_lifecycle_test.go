package services_test

import (
	"errors"
	"testing"

	"onlineshop/internal/domain"
	"onlineshop/internal/services"
)

func placeTestOrder(t *testing.T, e *env) *domain.Order {
	t.Helper()
	if err := e.cartSvc.Add("u-test", "p-a", 2); err != nil {
		t.Fatal(err)
	}
	order, err := e.orderSvc.Place("u-test", "1 Test Lane, Testville", "credit_card", "")
	if err != nil {
		t.Fatal(err)
	}
	return order
}

func TestConfirmDelivery_FirstRedemptionWins(t *testing.T) {
	e := newEnv(t)
	order := placeTestOrder(t, e)

	confirmed, err := e.orderSvc.ConfirmDelivery(order.ConfirmationToken)
	if err != nil {
		t.Fatal(err)
	}
	if confirmed.Status != domain.OrderDelivered || confirmed.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("want DELIVERED/PAID, got %s/%s", confirmed.Status, confirmed.PaymentStatus)
	}
	if !confirmed.Confirmed() {
		t.Fatal("confirmed_at not set")
	}

	// second redemption must fail and change nothing
	_, err = e.orderSvc.ConfirmDelivery(order.ConfirmationToken)
	if !errors.Is(err, services.ErrAlreadyConfirmed) {
		t.Fatalf("want ErrAlreadyConfirmed, got %v", err)
	}
	again, err := e.orderSvc.Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Status != domain.OrderDelivered || again.PaymentStatus != domain.PaymentPaid ||
		again.ConfirmedAt.String != confirmed.ConfirmedAt.String {
		t.Fatalf("state changed on second redemption: %+v", again)
	}
}

func TestConfirmDelivery_InvalidToken(t *testing.T) {
	e := newEnv(t)
	_, err := e.orderSvc.ConfirmDelivery("no-such-token")
	if !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestCancel_RestoresStock(t *testing.T) {
	e := newEnv(t)
	order := placeTestOrder(t, e) // stock(p-a): 5 -> 3

	cancelled, err := e.orderSvc.Cancel(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.Status != domain.OrderCancelled {
		t.Fatalf("want CANCELLED, got %s", cancelled.Status)
	}
	if qty, _ := e.stock(t, "p-a"); qty != 5 {
		t.Fatalf("want stock restored to 5, got %d", qty)
	}

	// cancelling again must not restore stock a second time
	_, err = e.orderSvc.Cancel(order.ID)
	if !errors.Is(err, services.ErrCancellationNotAllowed) {
		t.Fatalf("want ErrCancellationNotAllowed, got %v", err)
	}
	if qty, _ := e.stock(t, "p-a"); qty != 5 {
		t.Fatalf("stock restored twice, got %d", qty)
	}
}

func TestCancel_SoldOutProductRevives(t *testing.T) {
	e := newEnv(t)
	// buy out p-b entirely, then cancel: product should come back ACTIVE
	if err := e.cartSvc.Add("u-test", "p-b", 3); err != nil {
		t.Fatal(err)
	}
	order, err := e.orderSvc.Place("u-test", "1 Test Lane, Testville", "credit_card", "")
	if err != nil {
		t.Fatal(err)
	}
	if qty, status := e.stock(t, "p-b"); qty != 0 || status != "OUT_OF_STOCK" {
		t.Fatalf("want 0/OUT_OF_STOCK after buyout, got %d/%s", qty, status)
	}
	if _, err := e.orderSvc.Cancel(order.ID); err != nil {
		t.Fatal(err)
	}
	if qty, status := e.stock(t, "p-b"); qty != 3 || status != "ACTIVE" {
		t.Fatalf("want 3/ACTIVE after cancel, got %d/%s", qty, status)
	}
}

func TestCancel_ShippedOrderRejected(t *testing.T) {
	e := newEnv(t)
	order := placeTestOrder(t, e)

	if _, err := e.orderSvc.UpdateStatus(order.ID, domain.OrderShipped); err != nil {
		t.Fatal(err)
	}
	_, err := e.orderSvc.Cancel(order.ID)
	if !errors.Is(err, services.ErrCancellationNotAllowed) {
		t.Fatalf("want ErrCancellationNotAllowed, got %v", err)
	}
	// neither stock nor status changed
	if qty, _ := e.stock(t, "p-a"); qty != 3 {
		t.Fatalf("stock changed on rejected cancel, got %d", qty)
	}
	o, err := e.orderSvc.Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderShipped {
		t.Fatalf("status changed on rejected cancel: %s", o.Status)
	}
}

func TestUpdateStatus_CancelledRoutesThroughCompensation(t *testing.T) {
	e := newEnv(t)
	order := placeTestOrder(t, e)

	o, err := e.orderSvc.UpdateStatus(order.ID, domain.OrderCancelled)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderCancelled {
		t.Fatalf("want CANCELLED, got %s", o.Status)
	}
	if qty, _ := e.stock(t, "p-a"); qty != 5 {
		t.Fatalf("stock not restored via status update, got %d", qty)
	}
}

func TestUpdatePaymentStatus_PaidForcesProcessing(t *testing.T) {
	e := newEnv(t)
	order := placeTestOrder(t, e)

	o, err := e.orderSvc.UpdatePaymentStatus(order.ID, domain.PaymentPaid)
	if err != nil {
		t.Fatal(err)
	}
	if o.PaymentStatus != domain.PaymentPaid || o.Status != domain.OrderProcessing {
		t.Fatalf("want PAID/PROCESSING, got %s/%s", o.PaymentStatus, o.Status)
	}
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	e := newEnv(t)
	order := placeTestOrder(t, e)

	_, err := e.orderSvc.UpdateStatus(order.ID, "TELEPORTED")
	if !errors.Is(err, services.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
}
