package handlers

import (
	"onlineshop/internal/services"
	"onlineshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		return businessError(c, "cart.view.fail", err)
	}
	return c.JSON(cv)
}

// GET /api/v1/cart/count returns the item count for the header badge.
func (h *CartHandler) Count(c *fiber.Ctx) error {
	u := currentUser(c)
	n, err := h.Cart.Count(u.ID)
	if err != nil {
		return businessError(c, "cart.count.fail", err)
	}
	return c.JSON(fiber.Map{"count": n})
}

type cartItemReq struct {
	ProductID string `json:"product_id" form:"product_id"`
	Quantity  string `json:"quantity" form:"quantity"`
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing or invalid product_id")
	}
	if err := h.Cart.Add(u.ID, pid, validate.Qty(req.Quantity)); err != nil {
		return businessError(c, "cart.add.fail", err)
	}
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		return businessError(c, "cart.view.fail", err)
	}
	return c.JSON(cv)
}

// PUT /api/v1/cart/:productId
func (h *CartHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.Cart.UpdateQuantity(u.ID, pid, validate.Qty(req.Quantity)); err != nil {
		return businessError(c, "cart.update.fail", err)
	}
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		return businessError(c, "cart.view.fail", err)
	}
	return c.JSON(cv)
}

// DELETE /api/v1/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	u := currentUser(c)
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := h.Cart.Remove(u.ID, pid); err != nil {
		return businessError(c, "cart.remove.fail", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.Cart.Clear(u.ID); err != nil {
		return businessError(c, "cart.clear.fail", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
