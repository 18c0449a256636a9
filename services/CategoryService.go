package services

import (
	"context"
	"techStore/models"

	"go.uber.org/zap"
)

type CategoryService struct {
	ps *ProductService
}

func NewCategoryService(productService *ProductService) CategoryService {
	return CategoryService{
		ps: productService,
	}
}

// GetAllCategories lists the dropdown options, the "All" sentinel first.
func (cas *CategoryService) GetAllCategories() (categories []string) {
	categories = make([]string, 0, len(models.Categories)+1)
	categories = append(categories, models.AllCategories)
	categories = append(categories, models.Categories...)
	return
}

func (cas *CategoryService) GetCategoryWithProducts(ctx context.Context, category string) (prods []models.Product, err error) {
	if category == "" {
		zap.L().Debug("GetCategoryWithProducts: category is empty")
		err = models.ErrBadRequest
		return
	}
	prods, err = cas.ps.Query(ctx, "", category)
	return
}
