package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// UserUsecase は /users の業務ロジック。
// パスワードは必ずbcryptハッシュで保存し、平文は返さない。
type UserUsecase struct {
	userRepo repo.UserRepository
}

// DI
func NewUserUsecase(userRepo repo.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

// POST /users の入力DTO
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// PUT /users/{id} の入力DTO。nilは変更なし。
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	IsActive *bool
}

func (u *UserUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}

func (u *UserUsecase) GetUser(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

// emailは trim + 小文字化 してから比較・保存する
func (u *UserUsecase) CreateUser(ctx context.Context, in CreateUserInput) (model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "name cannot be blank")
	}
	if len(name) > 100 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "name must be 1-100 characters")
	}

	email := normalizeEmail(in.Email)
	if !isValidEmailFormat(email) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}

	if l := len(in.Password); l < 8 || l > 128 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "password must be 8-128 characters")
	}

	// email重複チェック
	_, exists, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.User{}, NewHTTPError(http.StatusConflict, "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "failed to hash password")
	}

	created, err := u.userRepo.Create(ctx, model.User{
		Name:           name,
		Email:          email,
		HashedPassword: string(hashed),
		IsActive:       true,
	})
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 指定されたフィールドだけ更新する。
// emailを変える場合は自分以外との重複を再チェックする。
func (u *UserUsecase) UpdateUser(ctx context.Context, userID int64, in UpdateUserInput) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if in.Name == nil && in.Email == nil && in.Password == nil && in.IsActive == nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "name cannot be blank")
		}
		if len(name) > 100 {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "name must be 1-100 characters")
		}
		user.Name = name
	}

	if in.Password != nil {
		if l := len(*in.Password); l < 8 || l > 128 {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "password must be 8-128 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return model.User{}, NewHTTPError(http.StatusInternalServerError, "failed to hash password")
		}
		user.HashedPassword = string(hashed)
	}

	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !isValidEmailFormat(email) {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
		}
		if email != user.Email {
			conflict, exists, err := u.userRepo.FindByEmail(ctx, email)
			if err != nil {
				return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if exists && conflict.ID != user.ID {
				return model.User{}, NewHTTPError(http.StatusConflict, "email already registered")
			}
			user.Email = email
		}
	}

	updated, err := u.userRepo.Update(ctx, user)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

func (u *UserUsecase) DeleteUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := u.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "user not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
