package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 明細の部分更新。nilのフィールドは変更しない。
type CartItemPatch struct {
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

// カート本体と明細をまとめて扱う。
// 取得系は常にItemsをEager Loadして返す（遅延読み込みはしない）。
type CartRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	Create(ctx context.Context, cart model.Cart) (model.Cart, error)
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 同一商品は数量加算・単価上書き
	AddItem(ctx context.Context, cartID int64, item model.CartItem) error
	UpdateItem(ctx context.Context, cartID int64, productID int64, patch CartItemPatch) error
	// 既存明細を全削除して渡されたリストに差し替える
	ReplaceItems(ctx context.Context, cartID int64, items []model.CartItem) error
	RemoveItem(ctx context.Context, cartID int64, productID int64) error
	ClearItems(ctx context.Context, cartID int64) error
	UpdateStatus(ctx context.Context, cartID int64, status string) error
	// 明細ごと削除
	Delete(ctx context.Context, cartID int64) error
}
