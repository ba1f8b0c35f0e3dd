package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"boutique/internal/middleware"
	"boutique/internal/repositories"
	"boutique/internal/services"
)

// DashboardHandler handles the admin back office: stats, users,
// categories, orders, reports, and store settings.
type DashboardHandler struct {
	dashboard *services.DashboardService
	log       *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

// RegisterRoutes registers the back-office routes; the router must already
// carry the auth and admin middleware.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleDashboard)
	router.Get("/api/dashboard/stats", h.HandleStats)

	router.Get("/api/users", h.HandleListUsers)
	router.Delete("/api/users/:id", h.HandleDeleteUser)

	router.Get("/api/categories", h.HandleListCategories)
	router.Post("/api/categories", h.HandleCreateCategory)
	router.Put("/api/categories/:id", h.HandleUpdateCategory)
	router.Delete("/api/categories/:id", h.HandleDeleteCategory)

	router.Get("/api/orders", h.HandleListOrders)
	router.Put("/api/orders/:id/status", h.HandleUpdateOrderStatus)

	router.Get("/api/reports/sales", h.HandleSalesReport)
	router.Get("/api/config", h.HandleConfig)
}

// HandleDashboard renders the admin landing page. Aggregate failures
// degrade to a zeroed payload so the page always loads.
func (h *DashboardHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats()
	if err != nil {
		middleware.Logger(c, h.log).Error("dashboard stats unavailable", zap.Error(err))
		stats = &services.DashboardStats{
			RecentOrders:    []services.OrderSummary{},
			PopularProducts: []repositories.ProductSales{},
		}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// HandleStats returns the raw dashboard aggregates.
func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// HandleListUsers returns all users for the admin table.
func (h *DashboardHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.dashboard.ListUsers()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// HandleDeleteUser removes a user and their cart rows.
func (h *DashboardHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid user id", services.ErrValidation))
	}
	if err := h.dashboard.DeleteUser(middleware.UserID(c), uint(id)); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted",
	})
}

// HandleListCategories returns all categories.
func (h *DashboardHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.dashboard.ListCategories()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

// HandleCreateCategory creates a category, minting a short code when none
// is supplied.
func (h *DashboardHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	category, err := h.dashboard.CreateCategory(input)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Category created",
		"category": category,
	})
}

// HandleUpdateCategory overwrites a category's mutable fields.
func (h *DashboardHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	category, err := h.dashboard.UpdateCategory(c.Params("id"), input)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Category updated",
		"category": category,
	})
}

// HandleDeleteCategory removes a category by its short code.
func (h *DashboardHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.dashboard.DeleteCategory(c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category deleted",
	})
}

// HandleListOrders returns all orders as back-office summaries.
func (h *DashboardHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.dashboard.ListOrders()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
	})
}

// HandleUpdateOrderStatus moves an order to another known status.
func (h *DashboardHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid order id", services.ErrValidation))
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.dashboard.UpdateOrderStatus(uint(id), req.Status); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated",
	})
}

// HandleSalesReport returns the lifetime revenue report.
func (h *DashboardHandler) HandleSalesReport(c *fiber.Ctx) error {
	report, err := h.dashboard.Report()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"report":  report,
	})
}

// HandleConfig returns the store settings payload.
func (h *DashboardHandler) HandleConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"config":  h.dashboard.Config(),
	})
}
