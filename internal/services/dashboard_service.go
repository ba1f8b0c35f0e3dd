package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"boutique/internal/models"
	"boutique/internal/repositories"
)

const salesTrendMonths = 6

// OrderSummary is an order row as the back office lists it.
type OrderSummary struct {
	ID       uint    `json:"id"`
	Customer string  `json:"customer"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
	Items    int     `json:"items"`
}

// DashboardStats is the aggregate payload behind the admin landing page.
type DashboardStats struct {
	TotalProducts   int64                       `json:"total_products"`
	TotalOrders     int64                       `json:"total_orders"`
	TotalUsers      int64                       `json:"total_users"`
	TodayIncome     float64                     `json:"today_income"`
	RecentOrders    []OrderSummary              `json:"recent_orders"`
	PopularProducts []repositories.ProductSales `json:"popular_products"`
}

// SalesReport aggregates revenue figures for the reports page.
type SalesReport struct {
	TotalSales    float64                      `json:"total_sales"`
	AverageOrder  float64                      `json:"average_order"`
	TopCategories []repositories.CategorySales `json:"top_categories"`
	SalesTrend    []float64                    `json:"sales_trend"`
}

// StoreConfig is the store settings payload, sourced from configuration.
type StoreConfig struct {
	StoreName       string  `json:"store_name"`
	Currency        string  `json:"currency"`
	TaxRate         float64 `json:"tax_rate"`
	ShippingCost    float64 `json:"shipping_cost"`
	FreeShippingMin float64 `json:"free_shipping_min"`
}

// CategoryInput carries admin category writes.
type CategoryInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// DashboardService drives the admin back office: aggregates, reports, and
// user/category/order management.
type DashboardService struct {
	users      repositories.UserRepository
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	orders     repositories.OrderRepository
	events     EventPublisher
	config     StoreConfig
	log        *zap.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	users repositories.UserRepository,
	products repositories.ProductRepository,
	categories repositories.CategoryRepository,
	orders repositories.OrderRepository,
	events EventPublisher,
	config StoreConfig,
	log *zap.Logger,
) *DashboardService {
	return &DashboardService{
		users:      users,
		products:   products,
		categories: categories,
		orders:     orders,
		events:     events,
		config:     config,
		log:        log,
	}
}

// Stats assembles the dashboard aggregates. The best-sellers rollup is
// best-effort: a failing query degrades to an empty list instead of
// failing the whole payload.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	totalProducts, err := s.products.Count()
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.Count()
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.Count()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayOrders, err := s.orders.ListSince(midnight)
	if err != nil {
		return nil, err
	}
	var todayIncome float64
	for _, o := range todayOrders {
		todayIncome += o.TotalAmount
	}

	recent, err := s.orders.ListRecent(5)
	if err != nil {
		return nil, err
	}

	popular, err := s.orders.TopProducts(3)
	if err != nil {
		s.log.Warn("failed to load best sellers", zap.Error(err))
		popular = []repositories.ProductSales{}
	}
	if popular == nil {
		popular = []repositories.ProductSales{}
	}

	return &DashboardStats{
		TotalProducts:   totalProducts,
		TotalOrders:     totalOrders,
		TotalUsers:      totalUsers,
		TodayIncome:     todayIncome,
		RecentOrders:    summarizeOrders(recent),
		PopularProducts: popular,
	}, nil
}

// ListUsers returns all users for the admin user table.
func (s *DashboardService) ListUsers() ([]models.User, error) {
	return s.users.List()
}

// DeleteUser removes a user and their cart rows. Admins cannot delete
// themselves.
func (s *DashboardService) DeleteUser(actorID, targetID uint) error {
	if actorID == targetID {
		return fmt.Errorf("%w: you cannot delete your own account", ErrValidation)
	}
	if err := s.users.Delete(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}
	return nil
}

// ListCategories returns all categories.
func (s *DashboardService) ListCategories() ([]models.Category, error) {
	return s.categories.List()
}

// CreateCategory persists a category, minting a sequential short code
// (C001, C002, ...) when none is supplied.
func (s *DashboardService) CreateCategory(input CategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	id := input.ID
	if id == "" {
		count, err := s.categories.Count()
		if err != nil {
			return nil, err
		}
		id = fmt.Sprintf("C%03d", count+1)
	}
	status := input.Status
	if status == "" {
		status = models.ProductStatusActive
	}
	category := &models.Category{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
	}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory overwrites a category's mutable fields.
func (s *DashboardService) UpdateCategory(id string, input CategoryInput) (*models.Category, error) {
	category, err := s.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category", ErrNotFound)
	}
	if input.Name != "" {
		category.Name = input.Name
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.Status != "" {
		category.Status = input.Status
	}
	if err := s.categories.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category by its short code.
func (s *DashboardService) DeleteCategory(id string) error {
	if err := s.categories.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category", ErrNotFound)
		}
		return err
	}
	return nil
}

// ListOrders returns all orders as back-office summaries.
func (s *DashboardService) ListOrders() ([]OrderSummary, error) {
	orders, err := s.orders.List()
	if err != nil {
		return nil, err
	}
	return summarizeOrders(orders), nil
}

// UpdateOrderStatus moves an order to another known status and publishes
// an order.status_updated event, best-effort.
func (s *DashboardService) UpdateOrderStatus(id uint, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
	}
	if err := s.orders.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order", ErrNotFound)
		}
		return err
	}
	if s.events != nil {
		body, err := json.Marshal(map[string]interface{}{"order_id": id, "status": status})
		if err == nil {
			if err := s.events.Publish("order.status_updated", body); err != nil {
				s.log.Warn("failed to publish order status event",
					zap.Uint("order_id", id), zap.Error(err))
			}
		}
	}
	return nil
}

// Report computes the sales report: lifetime totals, the average order,
// top categories by revenue, and a monthly revenue trend.
func (s *DashboardService) Report() (*SalesReport, error) {
	total, err := s.orders.SumTotal()
	if err != nil {
		return nil, err
	}
	count, err := s.orders.Count()
	if err != nil {
		return nil, err
	}
	var average float64
	if count > 0 {
		average = total / float64(count)
	}

	topCategories, err := s.orders.TopCategories(3)
	if err != nil {
		s.log.Warn("failed to load category revenue", zap.Error(err))
		topCategories = []repositories.CategorySales{}
	}
	if topCategories == nil {
		topCategories = []repositories.CategorySales{}
	}

	trend, err := s.salesTrend()
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		TotalSales:    total,
		AverageOrder:  average,
		TopCategories: topCategories,
		SalesTrend:    trend,
	}, nil
}

// Config returns the store settings payload.
func (s *DashboardService) Config() StoreConfig {
	return s.config
}

// salesTrend buckets the last six months of order totals in Go, keeping
// the query portable across postgres and sqlite.
func (s *DashboardService) salesTrend() ([]float64, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(salesTrendMonths - 1), 0)
	orders, err := s.orders.ListSince(start)
	if err != nil {
		return nil, err
	}
	trend := make([]float64, salesTrendMonths)
	for _, o := range orders {
		idx := (o.OrderDate.Year()-start.Year())*12 + int(o.OrderDate.Month()) - int(start.Month())
		if idx >= 0 && idx < salesTrendMonths {
			trend[idx] += o.TotalAmount
		}
	}
	return trend, nil
}

func summarizeOrders(orders []models.Order) []OrderSummary {
	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		customer := o.User.Name
		if customer == "" {
			customer = "Customer"
		}
		summaries = append(summaries, OrderSummary{
			ID:       o.ID,
			Customer: customer,
			Date:     o.OrderDate.Format("02/01/2006"),
			Amount:   o.TotalAmount,
			Status:   o.Status,
			Items:    len(o.Details),
		})
	}
	return summaries
}
