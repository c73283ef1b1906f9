package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/panjf2000/ants/v2"

	"onlineshop/internal/config"
	"onlineshop/internal/http/handlers"
	applog "onlineshop/internal/log"
	"onlineshop/internal/repos"
	"onlineshop/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Worker pool for mail dispatch and activity appends; both run off the
	// request path and never fail an order operation.
	pool, err := ants.NewPool(8)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Release()

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg, authSvc, pool)

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// Delivery confirmation link from the order email; the token is the credential
	app.Get("/orders/confirm/:token", deps.OrderHandler.ConfirmDelivery)

	// ---------- API ----------
	api := app.Group("/api/v1")

	api.Get("/categories", deps.ProductHandler.Categories)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)

	cart := api.Group("/cart", handlers.RequireUser(authSvc))
	cart.Get("/", deps.CartHandler.View)
	cart.Get("/count", deps.CartHandler.Count)
	cart.Post("/", deps.CartHandler.Add)
	cart.Put("/:productId", deps.CartHandler.Update)
	cart.Delete("/:productId", deps.CartHandler.Remove)
	cart.Delete("/", deps.CartHandler.Clear)

	orders := api.Group("/orders", handlers.RequireUser(authSvc))
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/", deps.OrderHandler.Mine)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Post("/:id/cancel", deps.OrderHandler.Cancel)

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/orders", deps.AdminHandler.Orders)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/orders/:id/payment-status", deps.AdminHandler.UpdatePaymentStatus)
	admin.Post("/products/:id/restock", deps.AdminHandler.Restock)
	admin.Get("/users/:id/activity", deps.AdminHandler.UserActivity)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
