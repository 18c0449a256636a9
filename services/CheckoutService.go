package services

import (
	"context"
	"errors"
	"sync"
	"techStore/metrics"
	"techStore/models"
	"techStore/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutService struct {
	mu  *sync.Mutex
	pr  repository.ProductRepository
	cr  repository.CartRepository
	rr  repository.ReceiptRepository
	rec *metrics.Metrics
	now func() time.Time
}

func NewCheckoutService(mu *sync.Mutex, productRepo repository.ProductRepository, cartRepo repository.CartRepository, receiptRepo repository.ReceiptRepository, rec *metrics.Metrics) CheckoutService {
	return CheckoutService{
		mu:  mu,
		pr:  productRepo,
		cr:  cartRepo,
		rr:  receiptRepo,
		rec: rec,
		now: time.Now,
	}
}

// Checkout validates every cart line against current stock before touching
// anything. Only when all lines fit is stock decremented, the receipt stored
// and the cart cleared. A rejected checkout leaves catalog and cart as they were.
func (co *CheckoutService) Checkout(ctx context.Context, cartSessionId string) (res models.CheckoutResult, err error) {
	co.mu.Lock()
	defer co.mu.Unlock()

	log := zap.L().With(zap.String("cart_session", cartSessionId))
	res.State = models.CheckoutIdle
	defer func() {
		if res.State == models.CheckoutCommitted || res.State == models.CheckoutRejected {
			co.rec.Checkout(res.State)
			co.transition(log, res.State, models.CheckoutIdle)
		}
	}()

	cart, err := co.cr.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	if cart.IsEmpty() {
		err = models.ErrEmptyCart
		return
	}

	res.State = co.transition(log, res.State, models.CheckoutValidating)
	for _, line := range cart.Lines {
		p, ex, e := co.pr.GetProductById(ctx, line.Id)
		if e != nil {
			res.State = models.CheckoutIdle
			err = e
			return
		}
		if !ex || line.Quantity > p.Quantity {
			stockErr := &models.StockError{ProductId: line.Id, Name: line.Name, Requested: line.Quantity}
			if ex {
				stockErr.Available = p.Quantity
			}
			res.State = co.transition(log, res.State, models.CheckoutRejected)
			res.Failure = stockErr
			err = stockErr
			log.Info("checkout rejected", zap.Int("product_id", line.Id), zap.Error(stockErr))
			return
		}
	}

	decrements := make([]models.StockDecrement, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		decrements = append(decrements, models.StockDecrement{ProductId: line.Id, Quantity: line.Quantity})
	}
	err = co.pr.DecrementStock(ctx, decrements)
	if err != nil {
		var stockErr *models.StockError
		if errors.As(err, &stockErr) {
			if i, ok := cart.Find(stockErr.ProductId); ok {
				stockErr.Name = cart.Lines[i].Name
			}
			res.State = co.transition(log, res.State, models.CheckoutRejected)
			res.Failure = stockErr
			log.Info("checkout rejected at commit", zap.Int("product_id", stockErr.ProductId), zap.Error(stockErr))
			return
		}
		res.State = models.CheckoutIdle
		return
	}

	receipt := models.Receipt{
		Id:          uuid.NewString(),
		Lines:       cart.Clone().Lines,
		Total:       CartTotal(cart.Lines),
		PurchasedAt: co.now().UTC(),
		Visible:     true,
	}
	res.State = co.transition(log, res.State, models.CheckoutCommitted)
	res.Receipt = receipt

	err = co.rr.SetReceipt(ctx, cartSessionId, receipt)
	if err != nil {
		log.Error("Checkout: stock committed but receipt not stored", zap.String("receipt_id", receipt.Id))
		return
	}
	err = co.cr.DeleteCart(ctx, cartSessionId)
	if err != nil {
		log.Error("Checkout: stock committed but cart not cleared", zap.String("receipt_id", receipt.Id))
		return
	}
	log.Info("checkout committed", zap.String("receipt_id", receipt.Id), zap.Float64("total", receipt.Total))
	return
}

func (co *CheckoutService) transition(log *zap.Logger, from, to models.CheckoutState) models.CheckoutState {
	log.Debug("checkout state", zap.Stringer("from", from), zap.Stringer("to", to))
	return to
}

// LastReceipt returns the receipt of the most recent successful checkout,
// whether or not it is currently shown.
func (co *CheckoutService) LastReceipt(ctx context.Context, cartSessionId string) (receipt models.Receipt, exists bool, err error) {
	co.mu.Lock()
	defer co.mu.Unlock()

	receipt, exists, err = co.rr.GetReceipt(ctx, cartSessionId)
	return
}

// DismissReceipt hides the receipt and keeps its contents until the next checkout.
func (co *CheckoutService) DismissReceipt(ctx context.Context, cartSessionId string) (err error) {
	co.mu.Lock()
	defer co.mu.Unlock()

	receipt, exists, err := co.rr.GetReceipt(ctx, cartSessionId)
	if err != nil || !exists {
		return
	}
	if !receipt.Visible {
		return
	}
	receipt.Visible = false
	err = co.rr.SetReceipt(ctx, cartSessionId, receipt)
	return
}
