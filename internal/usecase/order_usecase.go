package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderUsecase は /orders の業務ロジック。
// カートと違い、明細追加は数量を加算せず上書きする。
type OrderUsecase struct {
	orderRepo repo.OrderRepository
}

// DI
func NewOrderUsecase(orderRepo repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orderRepo: orderRepo}
}

type OrderItemInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// POST /orders の入力DTO。明細は1件以上必須。
type CreateOrderInput struct {
	UserID int64
	Items  []OrderItemInput
}

// PATCH /orders/{id} の明細更新1件分
type OrderItemUpdateInput struct {
	ProductID int64
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

type UpdateOrderInput struct {
	Status *string
	Items  []OrderItemUpdateInput
}

// GET /orders
func (u *OrderUsecase) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orderRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, nil
}

// GET /orders/users/{user_id}（0件は404）
func (u *OrderUsecase) ListUserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	orders, err := u.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(orders) == 0 {
		return nil, NewHTTPError(http.StatusNotFound, "no orders found for the user")
	}
	return orders, nil
}

// GET /orders/{id}
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return u.findOrder(ctx, orderID)
}

// 明細0件の注文は作れない（作成後に0件になるのは許容）
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (model.Order, error) {
	if in.UserID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	if len(in.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "at least one item is required")
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if err := validateOrderItemInput(it); err != nil {
			return model.Order{}, err
		}
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	created, err := u.orderRepo.Create(ctx, model.Order{
		UserID: in.UserID,
		Status: "PENDING",
		Items:  items,
	})
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, created.ID)
}

// POST /orders/{id}/items
// 注文が無ければ404。同一商品は数量・単価を上書き。
func (u *OrderUsecase) AddItem(ctx context.Context, orderID int64, in OrderItemInput) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if err := validateOrderItemInput(in); err != nil {
		return model.Order{}, err
	}

	order, err := u.findOrder(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}

	if err := u.orderRepo.UpsertItem(ctx, order.ID, model.OrderItem{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, order.ID)
}

// DELETE /orders/{id}/items/{product_id}
func (u *OrderUsecase) RemoveItem(ctx context.Context, orderID int64, productID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if productID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	order, err := u.findOrder(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if !orderHasItem(order, productID) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "item not found for order")
	}

	if err := u.orderRepo.RemoveItem(ctx, order.ID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "item not found for order")
		}
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, order.ID)
}

// PATCH /orders/{id}
// ステータスと明細の一括更新。明細の一部でも失敗したら全体を適用しない。
func (u *OrderUsecase) UpdateOrder(ctx context.Context, orderID int64, in UpdateOrderInput) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if in.Status == nil && len(in.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if in.Status != nil {
		if l := len(*in.Status); l < 1 || l > 20 {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "status must be 1-20 characters")
		}
	}

	order, err := u.findOrder(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}

	patches := make([]repo.OrderItemPatch, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if it.Quantity == nil && it.UnitPrice == nil {
			return model.Order{}, NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("no updates provided for product_id %d", it.ProductID))
		}
		if it.Quantity != nil && *it.Quantity < 1 {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid unit_price")
		}
		if !orderHasItem(order, it.ProductID) {
			return model.Order{}, NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("item with product_id %d not found in order", it.ProductID))
		}
		patches = append(patches, repo.OrderItemPatch{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	if err := u.orderRepo.Update(ctx, order.ID, in.Status, patches); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, order.ID)
}

// DELETE /orders/{id}（明細ごと削除）
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := u.findOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if err := u.orderRepo.Delete(ctx, order.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *OrderUsecase) findOrder(ctx context.Context, orderID int64) (model.Order, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return order, nil
}

// commit後の状態を取り直す
func (u *OrderUsecase) reload(ctx context.Context, orderID int64) (model.Order, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return order, nil
}

func orderHasItem(order model.Order, productID int64) bool {
	for _, it := range order.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func validateOrderItemInput(in OrderItemInput) error {
	if in.ProductID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.UnitPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "invalid unit_price")
	}
	return nil
}
