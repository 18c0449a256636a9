package services

import (
	"context"
	"sync"
	"techStore/entities"
	"techStore/metrics"
	"techStore/models"
	"techStore/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartService struct {
	mu  *sync.Mutex
	pr  repository.ProductRepository
	cr  repository.CartRepository
	rec *metrics.Metrics
}

func NewCartService(mu *sync.Mutex, productRepo repository.ProductRepository, cartRepo repository.CartRepository, rec *metrics.Metrics) CartService {
	return CartService{
		mu:  mu,
		pr:  productRepo,
		cr:  cartRepo,
		rec: rec,
	}
}

// AddToCart reserves one more unit of the product, or fails with
// ErrStockExhausted once the cart already holds all of its stock.
func (cs *CartService) AddToCart(ctx context.Context, cartSessionId string, prodId int) (err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	defer func() { cs.rec.CartOperation("add", err) }()

	p, ex, err := cs.pr.GetProductById(ctx, prodId)
	if err != nil {
		return
	}
	if !ex {
		zap.L().Debug("AddToCart: product does not exist", zap.Int("product_id", prodId))
		err = models.ErrMissingProduct
		return
	}
	cart, err := cs.cr.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	available := p.Quantity - cart.Reserved(prodId)
	if available <= 0 {
		err = models.ErrStockExhausted
		return
	}

	if i, ok := cart.Find(prodId); ok {
		cart.Lines[i].Quantity++
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			Id:       p.Id,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: 1,
		})
	}
	err = cs.cr.SetCart(ctx, cartSessionId, cart)
	return
}

// IncreaseQty checks the new line quantity against total stock on hand.
// A product without a cart line is left alone.
func (cs *CartService) IncreaseQty(ctx context.Context, cartSessionId string, prodId int) (err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	defer func() { cs.rec.CartOperation("increase", err) }()

	cart, err := cs.cr.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	i, ok := cart.Find(prodId)
	if !ok {
		return
	}
	p, ex, err := cs.pr.GetProductById(ctx, prodId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrMissingProduct
		return
	}
	if cart.Lines[i].Quantity+1 > p.Quantity {
		err = models.ErrStockExhausted
		return
	}
	cart.Lines[i].Quantity++
	err = cs.cr.SetCart(ctx, cartSessionId, cart)
	return
}

// DecreaseQty drops the line entirely instead of keeping it at zero.
func (cs *CartService) DecreaseQty(ctx context.Context, cartSessionId string, prodId int) (err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	defer func() { cs.rec.CartOperation("decrease", err) }()

	cart, err := cs.cr.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	i, ok := cart.Find(prodId)
	if !ok {
		return
	}
	if cart.Lines[i].Quantity <= 1 {
		cart.Remove(prodId)
	} else {
		cart.Lines[i].Quantity--
	}
	err = cs.cr.SetCart(ctx, cartSessionId, cart)
	return
}

func (cs *CartService) RemoveLine(ctx context.Context, cartSessionId string, prodId int) (err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	defer func() { cs.rec.CartOperation("remove", err) }()

	cart, err := cs.cr.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	if !cart.Remove(prodId) {
		return
	}
	err = cs.cr.SetCart(ctx, cartSessionId, cart)
	return
}

func (cs *CartService) ClearCart(ctx context.Context, cartSessionId string) (err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	defer func() { cs.rec.CartOperation("clear", err) }()

	err = cs.cr.DeleteCart(ctx, cartSessionId)
	return
}

func (cs *CartService) GetCart(ctx context.Context, cartSessionId string) (cart models.Cart, err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cart, err = cs.cr.GetCart(ctx, cartSessionId)
	return
}

func (cs *CartService) CartTotal(ctx context.Context, cartSessionId string) (total float64, err error) {
	cart, err := cs.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	total = CartTotal(cart.Lines)
	return
}

// GetCartItems renders the cart with per-line sums. A line is marked
// unavailable when its product is gone or no longer has enough stock.
func (cs *CartService) GetCartItems(ctx context.Context, cartSessionId string) (resp entities.CartResponse, err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cart, e := cs.cr.GetCart(ctx, cartSessionId)
	if e != nil {
		err = e
		return
	}
	items := []entities.CartItem{}
	for _, line := range cart.Lines {
		p, ex, e := cs.pr.GetProductById(ctx, line.Id)
		if e != nil {
			err = e
			return
		}
		items = append(items, entities.CartItem{
			Id:        line.Id,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			SumPrice:  line.Total().InexactFloat64(),
			Available: ex && line.Quantity <= p.Quantity,
		})
	}
	resp = entities.CartResponse{
		Products:   items,
		TotalPrice: CartTotal(cart.Lines),
	}
	return
}

// CartTotal sums price times quantity over the lines.
func CartTotal(lines []models.CartLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total.InexactFloat64()
}
