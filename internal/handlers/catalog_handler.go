package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"boutique/internal/services"
)

// CatalogHandler handles the storefront listing endpoints and the admin
// product CRUD.
type CatalogHandler struct {
	catalog *services.CatalogService
	log     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

// RegisterRoutes registers the public storefront routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/api/products", h.HandleListActive)
	router.Get("/api/products/category/:name", h.HandleListByCategory)
	router.Get("/api/products/:id", h.HandleGet)
}

// RegisterAdminRoutes registers the product management routes; the router
// must already carry the admin middleware.
func (h *CatalogHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/api/admin/products", h.HandleListAll)
	router.Post("/api/products", h.HandleCreate)
	router.Put("/api/products/:id", h.HandleUpdate)
	router.Delete("/api/products/:id", h.HandleDelete)
}

// HandleHome renders one storefront page of active products.
func (h *CatalogHandler) HandleHome(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	result, err := h.catalog.ListActive(page)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"products":    result.Products,
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"has_next":    result.HasNext,
		"has_prev":    result.HasPrev,
	})
}

// HandleListActive returns one page of active products.
func (h *CatalogHandler) HandleListActive(c *fiber.Ctx) error {
	return h.HandleHome(c)
}

// HandleGet returns one product with up to four related products.
func (h *CatalogHandler) HandleGet(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid product id", services.ErrValidation))
	}
	product, related, err := h.catalog.Get(uint(id))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": product,
		"related": related,
	})
}

// HandleListByCategory returns active products under a category label.
func (h *CatalogHandler) HandleListByCategory(c *fiber.Ctx) error {
	products, err := h.catalog.ListByCategory(c.Params("name"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// HandleListAll returns every product, active or not, for the back office.
func (h *CatalogHandler) HandleListAll(c *fiber.Ctx) error {
	products, err := h.catalog.ListAll()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// HandleCreate creates a product; its status is derived from stock.
func (h *CatalogHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	product, err := h.catalog.Create(input)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created",
		"product": product,
	})
}

// HandleUpdate applies a partial update to a product.
func (h *CatalogHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid product id", services.ErrValidation))
	}
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	product, err := h.catalog.Update(uint(id), input)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated",
		"product": product,
	})
}

// HandleDelete removes a product from the catalog.
func (h *CatalogHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid product id", services.ErrValidation))
	}
	if err := h.catalog.Delete(uint(id)); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted",
	})
}
