package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Create(ctx context.Context, cart model.Cart) (model.Cart, error) {
	args := m.Called(ctx, cart)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) AddItem(ctx context.Context, cartID int64, item model.CartItem) error {
	args := m.Called(ctx, cartID, item)
	return args.Error(0)
}

func (m *CartRepoMock) UpdateItem(ctx context.Context, cartID int64, productID int64, patch repo.CartItemPatch) error {
	args := m.Called(ctx, cartID, productID, patch)
	return args.Error(0)
}

func (m *CartRepoMock) ReplaceItems(ctx context.Context, cartID int64, items []model.CartItem) error {
	args := m.Called(ctx, cartID, items)
	return args.Error(0)
}

func (m *CartRepoMock) RemoveItem(ctx context.Context, cartID int64, productID int64) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *CartRepoMock) ClearItems(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status string) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Delete(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// HTTPErrorのステータスとメッセージを確認するヘルパー
func assertHTTPError(t *testing.T, err error, wantStatus int, wantContains string) {
	t.Helper()

	assert.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	assert.Equal(t, wantStatus, he.Status)
	assert.True(t, strings.Contains(he.Message, wantContains),
		"message %q should contain %q", he.Message, wantContains)
}

// =====================
// CreateCart
// =====================

func TestCartUsecase_CreateCart_ConflictWhenCartExists(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)

	uc := usecase.NewCartUsecase(cRepo)

	_, err := uc.CreateCart(ctx, usecase.CreateCartInput{UserID: 1})
	assertHTTPError(t, err, http.StatusConflict, "cart already exists")
	cRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartUsecase_CreateCart_Success(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)
	cRepo.On("Create", mock.Anything, mock.Anything).Return(model.Cart{ID: 10, UserID: 1, Status: "PENDING"}, nil)
	cRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Cart{ID: 10, UserID: 1, Status: "PENDING", Items: []model.CartItem{}}, nil)

	uc := usecase.NewCartUsecase(cRepo)

	out, err := uc.CreateCart(ctx, usecase.CreateCartInput{UserID: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.Equal(t, "PENDING", out.Status)
	cRepo.AssertExpectations(t)
}

func TestCartUsecase_CreateCart_InvalidStatus(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock))

	_, err := uc.CreateCart(context.Background(), usecase.CreateCartInput{UserID: 1, Status: "ab"})
	assertHTTPError(t, err, http.StatusBadRequest, "status must be 3-20")
}

func TestCartUsecase_CreateCart_InvalidItem(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock))

	_, err := uc.CreateCart(context.Background(), usecase.CreateCartInput{
		UserID: 1,
		Items:  []usecase.CartItemInput{{ProductID: 7, Quantity: 0}},
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid quantity")
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_CreatesCartImplicitly(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	cRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)
	cRepo.On("AddItem", mock.Anything, int64(10), mock.Anything).Return(nil)
	cRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Cart{
		ID:     10,
		UserID: 1,
		Items:  []model.CartItem{{ID: 1, CartID: 10, ProductID: 7, Quantity: 2}},
	}, nil)

	uc := usecase.NewCartUsecase(cRepo)

	out, err := uc.AddItem(ctx, 1, usecase.CartItemInput{
		ProductID: 7,
		Quantity:  2,
		UnitPrice: decimal.NewFromFloat(9.99),
	})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	cRepo.AssertExpectations(t)
}

func TestCartUsecase_AddItem_InvalidProductID(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock))

	_, err := uc.AddItem(context.Background(), 1, usecase.CartItemInput{ProductID: 0, Quantity: 1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid product_id")
}

// =====================
// UpdateStatus / UpdateItem
// =====================

func TestCartUsecase_UpdateStatus_NothingToUpdate(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock))

	_, err := uc.UpdateStatus(context.Background(), 1, usecase.UpdateCartStatusInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "nothing to update")
}

func TestCartUsecase_UpdateItem_NothingToUpdate(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock))

	_, err := uc.UpdateItem(context.Background(), 1, 7, usecase.UpdateCartItemInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "nothing to update")
}

func TestCartUsecase_UpdateItem_CartNotFound(t *testing.T) {
	cRepo := new(CartRepoMock)
	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	uc := usecase.NewCartUsecase(cRepo)

	qty := int64(3)
	_, err := uc.UpdateItem(context.Background(), 1, 7, usecase.UpdateCartItemInput{Quantity: &qty})
	assertHTTPError(t, err, http.StatusNotFound, "cart not found")
}

func TestCartUsecase_UpdateItem_ItemNotFound(t *testing.T) {
	cRepo := new(CartRepoMock)
	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{
		ID:     10,
		UserID: 1,
		Items:  []model.CartItem{{ProductID: 8, Quantity: 1}},
	}, nil)

	uc := usecase.NewCartUsecase(cRepo)

	qty := int64(3)
	_, err := uc.UpdateItem(context.Background(), 1, 7, usecase.UpdateCartItemInput{Quantity: &qty})
	assertHTTPError(t, err, http.StatusNotFound, "item not found")
	cRepo.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// RemoveItem / Delete
// =====================

func TestCartUsecase_RemoveItem_ItemNotFound(t *testing.T) {
	cRepo := new(CartRepoMock)
	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)

	uc := usecase.NewCartUsecase(cRepo)

	_, err := uc.RemoveItem(context.Background(), 1, 7)
	assertHTTPError(t, err, http.StatusNotFound, "item not found")
}

func TestCartUsecase_DeleteCart_NotFound(t *testing.T) {
	cRepo := new(CartRepoMock)
	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	uc := usecase.NewCartUsecase(cRepo)

	err := uc.DeleteCart(context.Background(), 1)
	assertHTTPError(t, err, http.StatusNotFound, "cart not found")
}
