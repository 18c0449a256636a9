package services

import (
	"context"
	"testing"

	"techStore/models"
	"techStore/repository"

	"github.com/stretchr/testify/require"
)

const testSession = "session-1"

type fixture struct {
	ctx      context.Context
	engine   *Engine
	products *repository.MemoryProductRepo
	carts    *repository.MemoryCartRepo
	receipts *repository.MemoryReceiptRepo
}

func newFixture(t *testing.T, prods ...models.Product) *fixture {
	t.Helper()

	f := &fixture{
		ctx:      context.Background(),
		products: repository.NewMemoryProductRepository(),
		carts:    repository.NewMemoryCartRepository(0),
		receipts: repository.NewMemoryReceiptRepository(0),
	}
	require.NoError(t, f.products.SeedProducts(f.ctx, prods))
	f.engine = NewEngine(EngineParams{
		ProductRepo: f.products,
		CartRepo:    f.carts,
		ReceiptRepo: f.receipts,
	})
	return f
}

func product(id int, name string, price float64, quantity int) models.Product {
	return models.Product{
		Id:       id,
		Name:     name,
		Category: "Phones",
		Price:    price,
		Quantity: quantity,
		Image:    models.DefaultImage,
	}
}

func (f *fixture) cart(t *testing.T) models.Cart {
	t.Helper()
	cart, err := f.engine.Cart.GetCart(f.ctx, testSession)
	require.NoError(t, err)
	return cart
}

func (f *fixture) lineQty(t *testing.T, prodId int) int {
	t.Helper()
	cart := f.cart(t)
	return cart.Reserved(prodId)
}

func (f *fixture) stock(t *testing.T, prodId int) int {
	t.Helper()
	p, ex, err := f.products.GetProductById(f.ctx, prodId)
	require.NoError(t, err)
	require.True(t, ex, "product %d should exist", prodId)
	return p.Quantity
}

func (f *fixture) addTimes(t *testing.T, prodId int, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.engine.Cart.AddToCart(f.ctx, testSession, prodId))
	}
}

// assertCartWithinStock checks that no cart line exceeds its product's stock
// and that no stock level is negative.
func (f *fixture) assertCartWithinStock(t *testing.T) {
	t.Helper()
	prods, err := f.products.GetProducts(f.ctx)
	require.NoError(t, err)
	for _, p := range prods {
		require.GreaterOrEqual(t, p.Quantity, 0, "stock of %d", p.Id)
	}
	for _, l := range f.cart(t).Lines {
		require.LessOrEqual(t, l.Quantity, f.stock(t, l.Id), "line %d", l.Id)
	}
}
