package handlers

import (
	"errors"

	applog "onlineshop/internal/log"
	"onlineshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// businessError maps service errors onto HTTP responses. Unknown errors get a
// generic 500 so internals never leak to the client.
func businessError(c *fiber.Ctx, action string, err error) error {
	var stock *services.InsufficientStockError
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return jsonError(c, fiber.StatusBadRequest, "your cart is empty")
	case errors.As(err, &stock):
		return jsonError(c, fiber.StatusConflict, "insufficient stock for "+stock.Product)
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCartItemNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidToken):
		return jsonError(c, fiber.StatusNotFound, "invalid confirmation token")
	case errors.Is(err, services.ErrAlreadyConfirmed):
		return jsonError(c, fiber.StatusConflict, "order already confirmed")
	case errors.Is(err, services.ErrCancellationNotAllowed):
		return jsonError(c, fiber.StatusConflict, "this order can no longer be cancelled")
	case errors.Is(err, services.ErrInvalidStatus):
		return jsonError(c, fiber.StatusBadRequest, "unknown status")
	}
	applog.Error(c, action, err, nil)
	return jsonError(c, fiber.StatusInternalServerError, "something went wrong, please try again")
}
