package handlers

import (
	applog "onlineshop/internal/log"
	"onlineshop/internal/repos"
	"onlineshop/internal/services"
	"onlineshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	OrderSvc *services.OrderService
	Inv      *services.InventoryService
	Activity *repos.ActivityRepo
}

// GET /admin/orders?status= or ?number=
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	if number := c.Query("number"); number != "" {
		order, err := h.OrderSvc.GetByNumber(number)
		if err != nil {
			return businessError(c, "admin.orders.lookup.fail", err)
		}
		return c.JSON([]any{order})
	}
	if status := c.Query("status"); status != "" {
		orders, err := h.OrderSvc.OrdersByStatus(status)
		if err != nil {
			return businessError(c, "admin.orders.list.fail", err)
		}
		return c.JSON(orders)
	}
	orders, err := h.OrderSvc.AllOrders(c.QueryInt("limit", 100))
	if err != nil {
		return businessError(c, "admin.orders.list.fail", err)
	}
	return c.JSON(orders)
}

type statusReq struct {
	Status string `json:"status" form:"status"`
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	order, err := h.OrderSvc.UpdateStatus(oid, req.Status)
	if err != nil {
		return businessError(c, "admin.orders.status.fail", err)
	}
	applog.Audit(c, "admin.orders.status", map[string]any{"order_id": oid, "status": req.Status})
	return c.JSON(order)
}

type paymentStatusReq struct {
	PaymentStatus string `json:"payment_status" form:"payment_status"`
}

// POST /admin/orders/:id/payment-status
func (h *AdminHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	var req paymentStatusReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	order, err := h.OrderSvc.UpdatePaymentStatus(oid, req.PaymentStatus)
	if err != nil {
		return businessError(c, "admin.orders.payment.fail", err)
	}
	applog.Audit(c, "admin.orders.payment", map[string]any{"order_id": oid, "payment_status": req.PaymentStatus})
	return c.JSON(order)
}

type restockReq struct {
	Quantity string `json:"quantity" form:"quantity"`
}

// POST /admin/products/:id/restock
func (h *AdminHandler) Restock(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	var req restockReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	qty := validate.Qty(req.Quantity)
	p, err := h.Inv.Restock(pid, qty)
	if err != nil {
		return businessError(c, "admin.restock.fail", err)
	}
	applog.Audit(c, "admin.restock", map[string]any{"product_id": pid, "qty": qty})
	return c.JSON(p)
}

// GET /admin/users/:id/activity
func (h *AdminHandler) UserActivity(c *fiber.Ctx) error {
	uid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "user not found")
	}
	logs, err := h.Activity.ListByUser(uid, c.QueryInt("limit", 50))
	if err != nil {
		return businessError(c, "admin.activity.fail", err)
	}
	out := make([]fiber.Map, 0, len(logs))
	for _, a := range logs {
		out = append(out, fiber.Map{
			"id":         a.ID,
			"type":       a.Type,
			"details":    a.Details,
			"ip":         a.IPAddress.String,
			"created_at": a.CreatedAt,
		})
	}
	return c.JSON(out)
}
