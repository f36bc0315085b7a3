package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Bool(1), args.Error(2)
}

func (m *UserRepoMock) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// Create
// =====================

// 大文字・前後空白入りのemailでも正規化後の重複は409
func TestUserUsecase_CreateUser_NormalizedEmailConflict(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "foo@bar.com").
		Return(model.User{ID: 1, Email: "foo@bar.com"}, true, nil)

	uc := usecase.NewUserUsecase(uRepo)

	_, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		Name:     "B",
		Email:    " Foo@Bar.com ",
		Password: "password123",
	})
	assertHTTPError(t, err, http.StatusConflict, "email already registered")
	uRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUsecase_CreateUser_HashesPassword(t *testing.T) {
	ctx := context.Background()

	var saved model.User
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "foo@bar.com").Return(model.User{}, false, nil)
	uRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(model.User)
		}).
		Return(model.User{ID: 1, Name: "A", Email: "foo@bar.com", IsActive: true}, nil)

	uc := usecase.NewUserUsecase(uRepo)

	out, err := uc.CreateUser(ctx, usecase.CreateUserInput{
		Name:     "A",
		Email:    " Foo@Bar.com ",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "foo@bar.com", out.Email)
	assert.True(t, out.IsActive)

	// 平文は保存されない
	assert.NotEqual(t, "password123", saved.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.HashedPassword), []byte("password123")))
}

func TestUserUsecase_CreateUser_BlankName(t *testing.T) {
	uc := usecase.NewUserUsecase(new(UserRepoMock))

	_, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		Name:     "   ",
		Email:    "foo@bar.com",
		Password: "password123",
	})
	assertHTTPError(t, err, http.StatusBadRequest, "name cannot be blank")
}

func TestUserUsecase_CreateUser_ShortPassword(t *testing.T) {
	uc := usecase.NewUserUsecase(new(UserRepoMock))

	_, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		Name:     "A",
		Email:    "foo@bar.com",
		Password: "short",
	})
	assertHTTPError(t, err, http.StatusBadRequest, "password must be 8-128")
}

// =====================
// Update
// =====================

func TestUserUsecase_UpdateUser_NothingToUpdate(t *testing.T) {
	uc := usecase.NewUserUsecase(new(UserRepoMock))

	_, err := uc.UpdateUser(context.Background(), 1, usecase.UpdateUserInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "nothing to update")
}

func TestUserUsecase_UpdateUser_EmailConflictExcludesSelf(t *testing.T) {
	ctx := context.Background()

	uRepo := new(UserRepoMock)
	uRepo.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1, Name: "A", Email: "a@example.com"}, nil)
	// 同じemailを別ユーザーが使用中
	uRepo.On("FindByEmail", mock.Anything, "b@example.com").
		Return(model.User{ID: 2, Email: "b@example.com"}, true, nil)

	uc := usecase.NewUserUsecase(uRepo)

	email := "b@example.com"
	_, err := uc.UpdateUser(ctx, 1, usecase.UpdateUserInput{Email: &email})
	assertHTTPError(t, err, http.StatusConflict, "email already registered")
	uRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserUsecase_UpdateUser_SameEmailNoConflict(t *testing.T) {
	ctx := context.Background()

	current := model.User{ID: 1, Name: "A", Email: "a@example.com"}
	uRepo := new(UserRepoMock)
	uRepo.On("FindByID", mock.Anything, int64(1)).Return(current, nil)
	uRepo.On("Update", mock.Anything, mock.Anything).Return(current, nil)

	uc := usecase.NewUserUsecase(uRepo)

	// 正規化すると現emailと同じなので重複チェック不要
	email := " A@Example.com "
	_, err := uc.UpdateUser(ctx, 1, usecase.UpdateUserInput{Email: &email})
	assert.NoError(t, err)
	uRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestUserUsecase_UpdateUser_NotFound(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByID", mock.Anything, int64(99)).Return(model.User{}, repo.ErrNotFound)

	uc := usecase.NewUserUsecase(uRepo)

	name := "B"
	_, err := uc.UpdateUser(context.Background(), 99, usecase.UpdateUserInput{Name: &name})
	assertHTTPError(t, err, http.StatusNotFound, "user not found")
}

// =====================
// Delete
// =====================

func TestUserUsecase_DeleteUser_NotFound(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("Delete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	uc := usecase.NewUserUsecase(uRepo)

	err := uc.DeleteUser(context.Background(), 99)
	assertHTTPError(t, err, http.StatusNotFound, "user not found")
}
