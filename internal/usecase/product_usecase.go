package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ProductUsecase は /products の業務ロジック。
type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

// POST /products/create の入力DTO
type CreateProductInput struct {
	Name        string
	Price       int64
	Description string
	Category    string
	Stock       int64
}

// PUT /products/update/{id} の入力DTO。nilは変更なし。
type UpdateProductInput struct {
	Name        *string
	Price       *int64
	Description *string
	Category    *string
	Stock       *int64
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 商品名の重複は409
func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if err := validateProductFields(in.Name, in.Description, in.Category); err != nil {
		return model.Product{}, err
	}

	_, exists, err := u.productRepo.FindByName(ctx, in.Name)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Product{}, NewHTTPError(http.StatusConflict, "product already exists")
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Stock:       in.Stock,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 指定されたフィールドだけ更新する
func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Name == nil && in.Price == nil && in.Description == nil && in.Category == nil && in.Stock == nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		if l := len(strings.TrimSpace(*in.Name)); l < 3 || l > 50 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "name must be 3-50 characters")
		}
		if *in.Name != p.Name {
			existing, exists, err := u.productRepo.FindByName(ctx, *in.Name)
			if err != nil {
				return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if exists && existing.ID != p.ID {
				return model.Product{}, NewHTTPError(http.StatusConflict, "product already exists")
			}
		}
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		if l := len(*in.Description); l < 5 || l > 200 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "description must be 5-200 characters")
		}
		p.Description = *in.Description
	}
	if in.Category != nil {
		if l := len(*in.Category); l < 3 || l > 50 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category must be 3-50 characters")
		}
		p.Category = *in.Category
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}

	updated, err := u.productRepo.Update(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

// 削除した商品のスナップショットを返す
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

func validateProductFields(name string, description string, category string) error {
	if l := len(strings.TrimSpace(name)); l < 3 || l > 50 {
		return NewHTTPError(http.StatusBadRequest, "name must be 3-50 characters")
	}
	if l := len(description); l < 5 || l > 200 {
		return NewHTTPError(http.StatusBadRequest, "description must be 5-200 characters")
	}
	if l := len(category); l < 3 || l > 50 {
		return NewHTTPError(http.StatusBadRequest, "category must be 3-50 characters")
	}
	return nil
}
