package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpsertItem(ctx context.Context, orderID int64, item model.OrderItem) error {
	args := m.Called(ctx, orderID, item)
	return args.Error(0)
}

func (m *OrderRepoMock) RemoveItem(ctx context.Context, orderID int64, productID int64) error {
	args := m.Called(ctx, orderID, productID)
	return args.Error(0)
}

func (m *OrderRepoMock) Update(ctx context.Context, orderID int64, status *string, patches []repo.OrderItemPatch) error {
	args := m.Called(ctx, orderID, status, patches)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// =====================
// Create
// =====================

func TestOrderUsecase_CreateOrder_EmptyItems(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(OrderRepoMock))

	_, err := uc.CreateOrder(context.Background(), usecase.CreateOrderInput{UserID: 1})
	assertHTTPError(t, err, http.StatusBadRequest, "at least one item is required")
}

func TestOrderUsecase_CreateOrder_Success(t *testing.T) {
	ctx := context.Background()

	oRepo := new(OrderRepoMock)
	oRepo.On("Create", mock.Anything, mock.Anything).Return(model.Order{ID: 5, UserID: 1, Status: "PENDING"}, nil)
	oRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:     5,
		UserID: 1,
		Status: "PENDING",
		Items:  []model.OrderItem{{ID: 1, OrderID: 5, ProductID: 7, Quantity: 2, UnitPrice: decimal.NewFromFloat(9.99)}},
	}, nil)

	uc := usecase.NewOrderUsecase(oRepo)

	out, err := uc.CreateOrder(ctx, usecase.CreateOrderInput{
		UserID: 1,
		Items: []usecase.OrderItemInput{
			{ProductID: 7, Quantity: 2, UnitPrice: decimal.NewFromFloat(9.99)},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	oRepo.AssertExpectations(t)
}

// =====================
// AddItem
// =====================

func TestOrderUsecase_AddItem_OrderNotFound(t *testing.T) {
	oRepo := new(OrderRepoMock)
	oRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Order{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(oRepo)

	_, err := uc.AddItem(context.Background(), 5, usecase.OrderItemInput{ProductID: 7, Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, "order not found")
	oRepo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// UpdateOrder
// =====================

func TestOrderUsecase_UpdateOrder_NothingToUpdate(t *testing.T) {
	uc := usecase.NewOrderUsecase(new(OrderRepoMock))

	_, err := uc.UpdateOrder(context.Background(), 5, usecase.UpdateOrderInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "nothing to update")
}

func TestOrderUsecase_UpdateOrder_ItemNotInOrder(t *testing.T) {
	oRepo := new(OrderRepoMock)
	oRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:    5,
		Items: []model.OrderItem{{ProductID: 8, Quantity: 1}},
	}, nil)

	uc := usecase.NewOrderUsecase(oRepo)

	qty := int64(5)
	_, err := uc.UpdateOrder(context.Background(), 5, usecase.UpdateOrderInput{
		Items: []usecase.OrderItemUpdateInput{{ProductID: 7, Quantity: &qty}},
	})
	assertHTTPError(t, err, http.StatusNotFound, "product_id 7 not found in order")
	oRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateOrder_ItemWithoutFields(t *testing.T) {
	oRepo := new(OrderRepoMock)
	oRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:    5,
		Items: []model.OrderItem{{ProductID: 7, Quantity: 1}},
	}, nil)

	uc := usecase.NewOrderUsecase(oRepo)

	_, err := uc.UpdateOrder(context.Background(), 5, usecase.UpdateOrderInput{
		Items: []usecase.OrderItemUpdateInput{{ProductID: 7}},
	})
	assertHTTPError(t, err, http.StatusBadRequest, "no updates provided for product_id 7")
}

func TestOrderUsecase_UpdateOrder_StatusOnly(t *testing.T) {
	ctx := context.Background()

	status := "SHIPPED"
	oRepo := new(OrderRepoMock)
	oRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: "PENDING"}, nil).Once()
	oRepo.On("Update", mock.Anything, int64(5), &status, mock.Anything).Return(nil)
	oRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: "SHIPPED"}, nil)

	uc := usecase.NewOrderUsecase(oRepo)

	out, err := uc.UpdateOrder(ctx, 5, usecase.UpdateOrderInput{Status: &status})
	assert.NoError(t, err)
	assert.Equal(t, "SHIPPED", out.Status)
	oRepo.AssertExpectations(t)
}

// =====================
// Lists
// =====================

func TestOrderUsecase_ListUserOrders_EmptyIs404(t *testing.T) {
	oRepo := new(OrderRepoMock)
	oRepo.On("ListByUserID", mock.Anything, int64(1)).Return([]model.Order{}, nil)

	uc := usecase.NewOrderUsecase(oRepo)

	_, err := uc.ListUserOrders(context.Background(), 1)
	assertHTTPError(t, err, http.StatusNotFound, "no orders found for the user")
}

func TestOrderUsecase_ListOrders_EmptyIsOK(t *testing.T) {
	oRepo := new(OrderRepoMock)
	oRepo.On("List", mock.Anything).Return([]model.Order{}, nil)

	uc := usecase.NewOrderUsecase(oRepo)

	out, err := uc.ListOrders(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, out)
}
