package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 金額はJSONでは数値のまま返す
	decimal.MarshalJSONWithoutQuotes = true
}

// カートの明細
// 同一カート内でproduct_idは一意。追加時は数量を加算する。
type CartItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64           `gorm:"not null;index" json:"cart_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
