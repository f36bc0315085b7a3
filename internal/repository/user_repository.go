package repository

import (
	"context"

	"app/internal/domain/model"
)

// ユーザーの永続化（保存・取得）だけを約束。
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, userID int64) (model.User, error)
	// 見つからない場合は (zero, false, nil)
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	Delete(ctx context.Context, userID int64) error
}
