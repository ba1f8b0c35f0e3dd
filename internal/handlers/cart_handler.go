package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"boutique/internal/middleware"
	"boutique/internal/services"
)

// CartHandler handles the shopping-cart endpoints.
type CartHandler struct {
	cart     *services.CartService
	validate *validator.Validate
	log      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, validate: validator.New(), log: log}
}

// RegisterRoutes registers the cart routes; the router must already carry
// the auth middleware.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cart", h.HandleViewCart)
	router.Get("/api/cart/count", h.HandleCount)
	router.Post("/api/cart/add", h.HandleAdd)
	router.Post("/api/cart/update", h.HandleUpdate)
	router.Post("/api/cart/remove", h.HandleRemove)
	router.Post("/api/cart/clear", h.HandleClear)
}

// HandleViewCart renders the user's cart with subtotals and the total.
func (h *CartHandler) HandleViewCart(c *fiber.Ctx) error {
	view, err := h.cart.ViewCart(middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"cart":    view,
	})
}

// HandleCount returns the number of rows in the user's cart.
func (h *CartHandler) HandleCount(c *fiber.Ctx) error {
	count, err := h.cart.Count(middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"cart_count": count,
	})
}

// AddToCartRequest represents the request body for adding a product.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

// HandleAdd adds a product to the cart, merging with an existing row.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: %v", services.ErrValidation, err))
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	count, err := h.cart.AddItem(middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Product added to cart",
		"cart_count": count,
	})
}

// UpdateCartRequest represents the request body for changing a quantity.
type UpdateCartRequest struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Quantity int  `json:"quantity"`
}

// HandleUpdate overwrites a cart row's quantity; zero removes the row.
func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: %v", services.ErrValidation, err))
	}

	count, err := h.cart.UpdateItem(middleware.UserID(c), req.ItemID, req.Quantity)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Cart updated",
		"cart_count": count,
	})
}

// HandleRemove deletes a cart row.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	var req struct {
		ItemID uint `json:"item_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: %v", services.ErrValidation, err))
	}

	count, err := h.cart.RemoveItem(middleware.UserID(c), req.ItemID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Item removed from cart",
		"cart_count": count,
	})
}

// HandleClear empties the user's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.cart.ClearCart(middleware.UserID(c)); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Cart cleared",
		"cart_count": 0,
	})
}
