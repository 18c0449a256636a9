package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"techStore/models"
	"techStore/repository"

	"go.uber.org/zap"
)

type ProductService struct {
	mu *sync.Mutex
	pr repository.ProductRepository
}

func NewProductService(mu *sync.Mutex, pRepo repository.ProductRepository) ProductService {
	return ProductService{
		mu: mu,
		pr: pRepo,
	}
}

// AddProduct validates the raw form and appends a product to the catalog.
// An empty name or an unparseable price yields ErrInvalidInput and no product.
func (ps *ProductService) AddProduct(ctx context.Context, draft models.ProductDraft) (created models.Product, err error) {
	pModel, err := productFromDraft(draft)
	if err != nil {
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	created, err = ps.pr.CreateProduct(ctx, pModel)
	if err != nil {
		return
	}
	zap.L().Info("product added", zap.Int("product_id", created.Id), zap.String("name", created.Name))
	return
}

func productFromDraft(draft models.ProductDraft) (pModel models.Product, err error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		zap.L().Debug("AddProduct: name is empty")
		err = models.ErrInvalidInput
		return
	}
	price, e := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if e != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		zap.L().Debug("AddProduct: price is invalid", zap.String("price", draft.Price))
		err = models.ErrInvalidInput
		return
	}
	quantity := leadingInt(draft.Quantity)
	if quantity < 0 {
		quantity = 0
	}
	category := strings.TrimSpace(draft.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	image := draft.Image
	if image == "" {
		image = models.DefaultImage
	}
	description := draft.Description
	if description == "" {
		description = fmt.Sprintf("This %s is designed for reliability.", strings.ToLower(category))
	}

	pModel = models.Product{
		Name:        name,
		Category:    category,
		Price:       price,
		Quantity:    quantity,
		Image:       image,
		Description: description,
	}
	return
}

// leadingInt reads an optional sign and the digits that follow it, ignoring
// the rest of the text: "7 units" is 7, "5.5" is 5. No digits, or a value
// that overflows int, gives 0.
func leadingInt(text string) int {
	text = strings.TrimSpace(text)
	end := 0
	if end < len(text) && (text[end] == '+' || text[end] == '-') {
		end++
	}
	digits := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return n
}

// RemoveProduct deletes a product once the caller has confirmed the removal.
// Cart lines that reference it are left in place.
func (ps *ProductService) RemoveProduct(ctx context.Context, prodId int, confirmed bool) (err error) {
	if !confirmed {
		err = models.ErrConfirmationRequired
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	deleted, err := ps.pr.DeleteProduct(ctx, prodId)
	if err != nil {
		return
	}
	if !deleted {
		zap.L().Debug("RemoveProduct: product does not exist", zap.Int("product_id", prodId))
		err = models.ErrMissingProduct
		return
	}
	zap.L().Info("product removed", zap.Int("product_id", prodId))
	return
}

func (ps *ProductService) GetProductById(ctx context.Context, prodId int) (pModel models.Product, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	var exists bool
	pModel, exists, err = ps.pr.GetProductById(ctx, prodId)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrMissingProduct
	}
	return
}

// Query returns the products whose name or category contains searchTerm,
// ignoring case, restricted to category unless it is "All".
func (ps *ProductService) Query(ctx context.Context, searchTerm string, category string) (prods []models.Product, err error) {
	ps.mu.Lock()
	all, err := ps.pr.GetProducts(ctx)
	ps.mu.Unlock()
	if err != nil {
		return
	}

	term := strings.ToLower(searchTerm)
	prods = []models.Product{}
	for _, p := range all {
		matchesSearch := strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Category), term)
		matchesCategory := category == models.AllCategories || p.Category == category
		if matchesSearch && matchesCategory {
			prods = append(prods, p)
		}
	}
	return
}
