package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// PATCH /orders/{id} の明細更新1件分。
type OrderItemPatch struct {
	ProductID int64
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

// 注文本体と明細をまとめて扱う。
// 取得系は常にItemsをEager Loadし、一覧は新しい順で返す。
type OrderRepository interface {
	List(ctx context.Context) ([]model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (model.Order, error)
	// 同一商品は数量・単価を上書き（加算しない）
	UpsertItem(ctx context.Context, orderID int64, item model.OrderItem) error
	RemoveItem(ctx context.Context, orderID int64, productID int64) error
	// ステータスと明細の一括更新。1件でも失敗したら全体をロールバックする。
	Update(ctx context.Context, orderID int64, status *string, patches []OrderItemPatch) error
	Delete(ctx context.Context, orderID int64) error
}
