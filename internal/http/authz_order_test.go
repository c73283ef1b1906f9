package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOrders_RequireLogin(t *testing.T) {
	app, _, _ := newShopApp(t)

	resp, err := app.Test(postJSON("/api/v1/orders/", "", map[string]any{
		"shipping_address": "42 Harbour Street, Portsville",
		"payment_method":   "credit_card",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
}

// Other users' orders answer 404, not 403, so order ids cannot be probed.
func TestOrders_OwnerOnly(t *testing.T) {
	app, _, users := newShopApp(t)
	order := placeSeedOrder(t, app, users)

	if err := users.BindSession("sid-bob", "u-bob"); err != nil {
		t.Fatal(err)
	}
	req := asUser(httptest.NewRequest("GET", "/api/v1/orders/"+order["id"].(string), nil), "sid-bob")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 for foreign order, got %d", resp.StatusCode)
	}

	req = asUser(httptest.NewRequest("GET", "/api/v1/orders/"+order["id"].(string), nil), "sid-alice")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminRoutes_RejectNonAdmin(t *testing.T) {
	app, _, users := newShopApp(t)
	if err := users.BindSession("sid-bob", "u-bob"); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(postJSON("/admin/products/p-tee/restock", "sid-bob",
		map[string]any{"quantity": "5"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403 for non-admin, got %d", resp.StatusCode)
	}
}

func TestAdmin_StatusAndRestock(t *testing.T) {
	app, _, users := newShopApp(t)
	order := placeSeedOrder(t, app, users)

	if err := users.BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(postJSON("/admin/orders/"+order["id"].(string)+"/status", "sid-admin",
		map[string]any{"status": "SHIPPED"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status update: got %d", resp.StatusCode)
	}

	resp, err = app.Test(postJSON("/admin/orders/"+order["id"].(string)+"/status", "sid-admin",
		map[string]any{"status": "MISPLACED"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bogus status: want 400, got %d", resp.StatusCode)
	}

	// sold-out seed product comes back sellable after a restock
	resp, err = app.Test(postJSON("/admin/products/p-tee/restock", "sid-admin",
		map[string]any{"quantity": "5"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restock: got %d", resp.StatusCode)
	}
}
