package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /carts の業務ロジック。
// すべての更新系は commit 後にカート全体（本体＋明細）を取り直して返す。
type CartUsecase struct {
	cartRepo repo.CartRepository
}

// DI
func NewCartUsecase(cartRepo repo.CartRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo}
}

type CartItemInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

type CreateCartInput struct {
	UserID int64
	Status string
	Items  []CartItemInput
}

type UpdateCartStatusInput struct {
	Status *string
}

// nilのフィールドは変更しない
type UpdateCartItemInput struct {
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

type ReplaceCartItemsInput struct {
	Items []CartItemInput
}

// GET /carts/{user_id}
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, nil
}

// 既にカートを持つユーザーは409
func (u *CartUsecase) CreateCart(ctx context.Context, in CreateCartInput) (model.Cart, error) {
	if in.UserID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}

	status := in.Status
	if status == "" {
		status = "PENDING"
	}
	if err := validateCartStatus(status); err != nil {
		return model.Cart{}, err
	}

	items := make([]model.CartItem, 0, len(in.Items))
	for _, it := range in.Items {
		if err := validateCartItemInput(it); err != nil {
			return model.Cart{}, err
		}
		items = append(items, model.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	_, err := u.cartRepo.FindByUserID(ctx, in.UserID)
	if err == nil {
		return model.Cart{}, NewHTTPError(http.StatusConflict, "cart already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.cartRepo.Create(ctx, model.Cart{
		UserID: in.UserID,
		Status: status,
		Items:  items,
	})
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, created.ID)
}

// カートが無ければ暗黙に作ってから追加する。
// 同一商品は数量加算・単価上書き。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in CartItemInput) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if err := validateCartItemInput(in); err != nil {
		return model.Cart{}, err
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.AddItem(ctx, cart.ID, model.CartItem{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}); err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, cart.ID)
}

// PATCH /carts/status/{user_id}
func (u *CartUsecase) UpdateStatus(ctx context.Context, userID int64, in UpdateCartStatusInput) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if in.Status == nil {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if err := validateCartStatus(*in.Status); err != nil {
		return model.Cart{}, err
	}

	cart, err := u.findCart(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	if err := u.cartRepo.UpdateStatus(ctx, cart.ID, *in.Status); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart not found")
		}
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, cart.ID)
}

// PATCH /carts/{user_id}/items/{product_id}
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, productID int64, in UpdateCartItemInput) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if productID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Quantity == nil && in.UnitPrice == nil {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid unit_price")
	}

	cart, err := u.findCart(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}
	if !cartHasItem(cart, productID) {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "item not found")
	}

	if err := u.cartRepo.UpdateItem(ctx, cart.ID, productID, repo.CartItemPatch{
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	}); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Cart{}, NewHTTPError(http.StatusNotFound, "item not found")
		}
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, cart.ID)
}

// PUT /carts/{user_id}/items（マージせず丸ごと差し替え）
func (u *CartUsecase) ReplaceItems(ctx context.Context, userID int64, in ReplaceCartItemsInput) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	items := make([]model.CartItem, 0, len(in.Items))
	for _, it := range in.Items {
		if err := validateCartItemInput(it); err != nil {
			return model.Cart{}, err
		}
		items = append(items, model.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	cart, err := u.findCart(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	if err := u.cartRepo.ReplaceItems(ctx, cart.ID, items); err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, cart.ID)
}

// DELETE /carts/{user_id}/items/{product_id}
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if productID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	cart, err := u.findCart(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}
	if !cartHasItem(cart, productID) {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "item not found")
	}

	if err := u.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Cart{}, NewHTTPError(http.StatusNotFound, "item not found")
		}
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, cart.ID)
}

// DELETE /carts/{user_id}/items（本体は残す）
func (u *CartUsecase) ClearItems(ctx context.Context, userID int64) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	cart, err := u.findCart(ctx, userID)
	if err != nil {
		return model.Cart{}, err
	}

	if err := u.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.reload(ctx, cart.ID)
}

// DELETE /carts/{user_id}（明細ごと削除）
func (u *CartUsecase) DeleteCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	cart, err := u.findCart(ctx, userID)
	if err != nil {
		return err
	}

	if err := u.cartRepo.Delete(ctx, cart.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) findCart(ctx context.Context, userID int64) (model.Cart, error) {
	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, nil
}

// commit後の状態を取り直す
func (u *CartUsecase) reload(ctx context.Context, cartID int64) (model.Cart, error) {
	cart, err := u.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, nil
}

func cartHasItem(cart model.Cart, productID int64) bool {
	for _, it := range cart.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func validateCartItemInput(in CartItemInput) error {
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

func validateCartStatus(status string) error {
	if l := len(status); l < 3 || l > 20 {
		return NewHTTPError(http.StatusBadRequest, "status must be 3-20 characters")
	}
	return nil
}
