package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func orderWithItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_items.id asc")
	})
}

// 全注文を新しい順で取得
func (r *OrderGormRepository) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order

	err := orderWithItems(r.db.WithContext(ctx)).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

// ユーザーの注文を新しい順で取得
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order

	err := orderWithItems(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

// 注文を明細込みで取得
func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order

	err := orderWithItems(r.db.WithContext(ctx)).
		Where("id = ?", orderID).
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// 注文を明細ごと新規作成
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// 同一商品は数量・単価を上書き、無ければ新規明細
func (r *OrderGormRepository) UpsertItem(ctx context.Context, orderID int64, item model.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.OrderItem

		err := tx.
			Where("order_id = ? AND product_id = ?", orderID, item.ProductID).
			First(&existing).Error

		if err == nil {
			res := tx.Model(&model.OrderItem{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"quantity":   item.Quantity,
					"unit_price": item.UnitPrice,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item.ID = 0
		item.OrderID = orderID
		return tx.Create(&item).Error
	})
}

// 明細を1件削除
func (r *OrderGormRepository) RemoveItem(ctx context.Context, orderID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&model.OrderItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ステータスと明細の一括更新。
// 明細が1件でも見つからなければ全体をロールバックする。
func (r *OrderGormRepository) Update(ctx context.Context, orderID int64, status *string, patches []repo.OrderItemPatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		if status != nil {
			res := tx.Model(&model.Order{}).
				Where("id = ?", orderID).
				Update("status", *status)
			if res.Error != nil {
				return res.Error
			}
		}

		for _, p := range patches {
			updates := map[string]interface{}{}
			if p.Quantity != nil {
				updates["quantity"] = *p.Quantity
			}
			if p.UnitPrice != nil {
				updates["unit_price"] = *p.UnitPrice
			}

			res := tx.Model(&model.OrderItem{}).
				Where("order_id = ? AND product_id = ?", orderID, p.ProductID).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
		}

		return nil
	})
}

// 注文を明細ごと削除
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", orderID).Delete(&model.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
