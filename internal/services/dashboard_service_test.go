package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/internal/services"
)

func newDashboardService(
	users *MockUserRepository,
	products *MockProductRepository,
	categories *MockCategoryRepository,
	orders *MockOrderRepository,
	events *MockEventPublisher,
) *services.DashboardService {
	var pub services.EventPublisher
	if events != nil {
		pub = events
	}
	config := services.StoreConfig{StoreName: "Fashion Boutique", Currency: "USD"}
	return services.NewDashboardService(users, products, categories, orders, pub, config, zap.NewNop())
}

func TestDashboardService_Stats(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockProducts := new(MockProductRepository)
	mockOrders := new(MockOrderRepository)
	service := newDashboardService(mockUsers, mockProducts, new(MockCategoryRepository), mockOrders, nil)

	mockProducts.On("Count").Return(int64(12), nil).Once()
	mockOrders.On("Count").Return(int64(4), nil).Once()
	mockUsers.On("Count").Return(int64(9), nil).Once()
	mockOrders.On("ListSince", mock.AnythingOfType("time.Time")).Return([]models.Order{
		{ID: 1, TotalAmount: 40.0},
		{ID: 2, TotalAmount: 60.0},
	}, nil).Once()
	mockOrders.On("ListRecent", 5).Return([]models.Order{
		{
			ID: 2, TotalAmount: 60.0, Status: models.OrderStatusPending,
			OrderDate: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
			User:      models.User{Name: "jane"},
			Details:   []models.OrderDetail{{ID: 1}, {ID: 2}},
		},
	}, nil).Once()
	mockOrders.On("TopProducts", 3).Return([]repositories.ProductSales{
		{Name: "Silk Scarf", Category: "Accessories", TotalSold: 8},
	}, nil).Once()

	stats, err := service.Stats()

	assert.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalProducts)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(9), stats.TotalUsers)
	assert.InDelta(t, 100.0, stats.TodayIncome, 0.001)
	assert.Len(t, stats.RecentOrders, 1)
	assert.Equal(t, "jane", stats.RecentOrders[0].Customer)
	assert.Equal(t, "27/08/2026", stats.RecentOrders[0].Date)
	assert.Equal(t, 2, stats.RecentOrders[0].Items)
	assert.Len(t, stats.PopularProducts, 1)
	mockOrders.AssertExpectations(t)
}

func TestDashboardService_Stats_BestSellersDegrade(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockProducts := new(MockProductRepository)
	mockOrders := new(MockOrderRepository)
	service := newDashboardService(mockUsers, mockProducts, new(MockCategoryRepository), mockOrders, nil)

	mockProducts.On("Count").Return(int64(0), nil).Once()
	mockOrders.On("Count").Return(int64(0), nil).Once()
	mockUsers.On("Count").Return(int64(0), nil).Once()
	mockOrders.On("ListSince", mock.AnythingOfType("time.Time")).Return([]models.Order{}, nil).Once()
	mockOrders.On("ListRecent", 5).Return([]models.Order{}, nil).Once()
	mockOrders.On("TopProducts", 3).Return(nil, assert.AnError).Once()

	stats, err := service.Stats()

	assert.NoError(t, err)
	assert.NotNil(t, stats.PopularProducts)
	assert.Empty(t, stats.PopularProducts)
}

func TestDashboardService_DeleteUser_SelfDeleteRejected(t *testing.T) {
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		new(MockCategoryRepository), new(MockOrderRepository), nil)

	err := service.DeleteUser(5, 5)

	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestDashboardService_DeleteUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newDashboardService(mockUsers, new(MockProductRepository),
		new(MockCategoryRepository), new(MockOrderRepository), nil)

	mockUsers.On("Delete", uint(8)).Return(nil).Once()

	assert.NoError(t, service.DeleteUser(5, 8))
	mockUsers.AssertExpectations(t)
}

func TestDashboardService_CreateCategory_MintsCode(t *testing.T) {
	mockCategories := new(MockCategoryRepository)
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		mockCategories, new(MockOrderRepository), nil)

	mockCategories.On("Count").Return(int64(2), nil).Once()
	mockCategories.On("Create", mock.AnythingOfType("*models.Category")).Return(nil).Once()

	category, err := service.CreateCategory(services.CategoryInput{Name: "Outerwear"})

	assert.NoError(t, err)
	assert.Equal(t, "C003", category.ID)
	assert.Equal(t, models.ProductStatusActive, category.Status)
	mockCategories.AssertExpectations(t)
}

func TestDashboardService_CreateCategory_RequiresName(t *testing.T) {
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		new(MockCategoryRepository), new(MockOrderRepository), nil)

	_, err := service.CreateCategory(services.CategoryInput{})

	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestDashboardService_UpdateOrderStatus(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockEvents := new(MockEventPublisher)
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		new(MockCategoryRepository), mockOrders, mockEvents)

	mockOrders.On("UpdateStatus", uint(3), models.OrderStatusShipped).Return(nil).Once()
	mockEvents.On("Publish", "order.status_updated", mock.Anything).Return(nil).Once()

	assert.NoError(t, service.UpdateOrderStatus(3, models.OrderStatusShipped))
	mockOrders.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestDashboardService_UpdateOrderStatus_UnknownStatus(t *testing.T) {
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		new(MockCategoryRepository), new(MockOrderRepository), nil)

	err := service.UpdateOrderStatus(3, "Teleported")

	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestDashboardService_UpdateOrderStatus_EventFailureIgnored(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockEvents := new(MockEventPublisher)
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		new(MockCategoryRepository), mockOrders, mockEvents)

	mockOrders.On("UpdateStatus", uint(3), models.OrderStatusCancelled).Return(nil).Once()
	mockEvents.On("Publish", "order.status_updated", mock.Anything).Return(assert.AnError).Once()

	assert.NoError(t, service.UpdateOrderStatus(3, models.OrderStatusCancelled))
	mockEvents.AssertExpectations(t)
}

func TestDashboardService_Report(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		new(MockCategoryRepository), mockOrders, nil)

	now := time.Now()
	// Mid-month anchor keeps AddDate month arithmetic from overflowing.
	midMonth := time.Date(now.Year(), now.Month(), 15, 12, 0, 0, 0, now.Location())
	mockOrders.On("SumTotal").Return(300.0, nil).Once()
	mockOrders.On("Count").Return(int64(3), nil).Once()
	mockOrders.On("TopCategories", 3).Return([]repositories.CategorySales{
		{Name: "Accessories", Sales: 180.0},
	}, nil).Once()
	mockOrders.On("ListSince", mock.AnythingOfType("time.Time")).Return([]models.Order{
		{TotalAmount: 100.0, OrderDate: midMonth},
		{TotalAmount: 50.0, OrderDate: midMonth},
		{TotalAmount: 150.0, OrderDate: midMonth.AddDate(0, -2, 0)},
	}, nil).Once()

	report, err := service.Report()

	assert.NoError(t, err)
	assert.InDelta(t, 300.0, report.TotalSales, 0.001)
	assert.InDelta(t, 100.0, report.AverageOrder, 0.001)
	assert.Len(t, report.TopCategories, 1)
	assert.Len(t, report.SalesTrend, 6)
	assert.InDelta(t, 150.0, report.SalesTrend[5], 0.001)
	assert.InDelta(t, 150.0, report.SalesTrend[3], 0.001)
}

func TestDashboardService_Report_NoOrders(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := newDashboardService(new(MockUserRepository), new(MockProductRepository),
		new(MockCategoryRepository), mockOrders, nil)

	mockOrders.On("SumTotal").Return(0.0, nil).Once()
	mockOrders.On("Count").Return(int64(0), nil).Once()
	mockOrders.On("TopCategories", 3).Return([]repositories.CategorySales{}, nil).Once()
	mockOrders.On("ListSince", mock.AnythingOfType("time.Time")).Return([]models.Order{}, nil).Once()

	report, err := service.Report()

	assert.NoError(t, err)
	assert.Zero(t, report.AverageOrder)
}
