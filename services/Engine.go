package services

import (
	"sync"
	"techStore/metrics"
	"techStore/repository"
)

// Engine bundles the catalog, cart and checkout services around a single
// session lock. Every operation runs to completion before the next one starts.
type Engine struct {
	Products   *ProductService
	Cart       *CartService
	Checkout   *CheckoutService
	Categories *CategoryService
}

type EngineParams struct {
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	ReceiptRepo repository.ReceiptRepository
	Metrics     *metrics.Metrics
}

func NewEngine(params EngineParams) *Engine {
	mu := &sync.Mutex{}
	ps := NewProductService(mu, params.ProductRepo)
	cs := NewCartService(mu, params.ProductRepo, params.CartRepo, params.Metrics)
	co := NewCheckoutService(mu, params.ProductRepo, params.CartRepo, params.ReceiptRepo, params.Metrics)
	cas := NewCategoryService(&ps)
	return &Engine{
		Products:   &ps,
		Cart:       &cs,
		Checkout:   &co,
		Categories: &cas,
	}
}
