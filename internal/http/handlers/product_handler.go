package handlers

import (
	"onlineshop/internal/services"
	"onlineshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/categories
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return businessError(c, "categories.list.fail", err)
	}
	return c.JSON(cats)
}

// GET /api/v1/products?q=&category=&page=&page_size=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := ""
	if raw := c.Query("q"); raw != "" {
		cleaned, ok := validate.Q(raw)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid search query")
		}
		q = cleaned
	}
	category := c.Query("category")
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid category")
		}
	}
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 12)

	products, err := h.Catalog.Search(q, category, page, pageSize)
	if err != nil {
		return businessError(c, "products.list.fail", err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return businessError(c, "product.get.fail", err)
	}
	return c.JSON(p)
}
