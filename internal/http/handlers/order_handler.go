package handlers

import (
	applog "onlineshop/internal/log"
	"onlineshop/internal/services"
	"onlineshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
	Mailer *services.Mailer
}

type placeOrderReq struct {
	ShippingAddress string `json:"shipping_address" form:"shipping_address"`
	PaymentMethod   string `json:"payment_method" form:"payment_method"`
	Notes           string `json:"notes" form:"notes"`
}

// POST /api/v1/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)

	var req placeOrderReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	addr, ok := validate.Address(req.ShippingAddress)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "shipping_address"})
		return jsonError(c, fiber.StatusBadRequest, "invalid shipping address")
	}
	method, ok := validate.PaymentMethod(req.PaymentMethod)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid payment method")
	}

	order, err := h.Orders.Place(u.ID, addr, method, validate.Notes(req.Notes))
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"user_id": u.ID, "error": err.Error()})
		return businessError(c, "order.place.fail", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount.StringFixed(2),
	})
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GET /api/v1/orders
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Orders.UserOrders(u.ID)
	if err != nil {
		return businessError(c, "orders.list.fail", err)
	}
	return c.JSON(orders)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	order, err := h.Orders.Get(oid)
	if err != nil {
		return businessError(c, "order.get.fail", err)
	}
	// owner or admin only; respond 404 rather than revealing the order exists
	if order.UserID != u.ID && u.Role != "ADMIN" {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	return c.JSON(order)
}

// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	u := currentUser(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	order, err := h.Orders.Get(oid)
	if err != nil {
		return businessError(c, "order.cancel.fail", err)
	}
	if order.UserID != u.ID && u.Role != "ADMIN" {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	cancelled, err := h.Orders.Cancel(oid)
	if err != nil {
		return businessError(c, "order.cancel.fail", err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": oid})
	return c.JSON(cancelled)
}

// GET /orders/confirm/:token is the link sent in the confirmation email.
// Unauthenticated on purpose; the token is the credential.
func (h *OrderHandler) ConfirmDelivery(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return jsonError(c, fiber.StatusNotFound, "invalid confirmation token")
	}
	order, err := h.Orders.ConfirmDelivery(token)
	if err != nil {
		return businessError(c, "order.confirm.fail", err)
	}
	applog.Audit(c, "order.confirm", map[string]any{"order_id": order.ID})
	return c.JSON(fiber.Map{
		"message":        "delivery confirmed, thank you",
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
}
