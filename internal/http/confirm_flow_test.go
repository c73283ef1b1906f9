package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"onlineshop/internal/config"
	"onlineshop/internal/http/handlers"
	"onlineshop/internal/repos"
	"onlineshop/internal/services"
)

// newShopApp wires the real route table over a fresh in-memory store.
func newShopApp(t *testing.T) (*fiber.App, *handlers.Deps, *repos.UserRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	// nil pool: collaborators run inline
	deps := handlers.NewDeps(db, config.Config{BaseURL: "http://shop.test"}, authSvc, nil)

	app := fiber.New()

	app.Get("/orders/confirm/:token", deps.OrderHandler.ConfirmDelivery)

	api := app.Group("/api/v1")
	cart := api.Group("/cart", handlers.RequireUser(authSvc))
	cart.Post("/", deps.CartHandler.Add)

	orders := api.Group("/orders", handlers.RequireUser(authSvc))
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Post("/:id/cancel", deps.OrderHandler.Cancel)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/products/:id/restock", deps.AdminHandler.Restock)

	return app, deps, userRepo
}

func asUser(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}

func postJSON(path, sid string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		asUser(req, sid)
	}
	return req
}

func placeSeedOrder(t *testing.T, app *fiber.App, users *repos.UserRepo) map[string]any {
	t.Helper()
	if err := users.BindSession("sid-alice", "u-alice"); err != nil {
		t.Fatal(err)
	}
	resp, err := app.Test(postJSON("/api/v1/cart/", "sid-alice",
		map[string]any{"product_id": "p-novel", "quantity": "2"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cart add: got %d", resp.StatusCode)
	}

	resp, err = app.Test(postJSON("/api/v1/orders/", "sid-alice", map[string]any{
		"shipping_address": "42 Harbour Street, Portsville",
		"payment_method":   "credit_card",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: got %d", resp.StatusCode)
	}
	var order map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		t.Fatal(err)
	}
	return order
}

func TestConfirmLink_RedeemsOnceThenConflicts(t *testing.T) {
	app, deps, users := newShopApp(t)
	order := placeSeedOrder(t, app, users)

	// the token travels in the email, never in the API response
	if _, ok := order["confirmation_token"]; ok {
		t.Fatal("confirmation token leaked into the order payload")
	}
	full, err := deps.OrderHandler.Orders.Get(order["id"].(string))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/orders/confirm/"+full.ConfirmationToken, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first redemption: got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "DELIVERED" || body["payment_status"] != "PAID" {
		t.Fatalf("want DELIVERED/PAID, got %v/%v", body["status"], body["payment_status"])
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/orders/confirm/"+full.ConfirmationToken, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second redemption: want 409, got %d", resp.StatusCode)
	}
}

func TestConfirmLink_UnknownToken(t *testing.T) {
	app, _, _ := newShopApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/orders/confirm/not-a-token", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}
