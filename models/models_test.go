package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart(t *testing.T) {
	cart := Cart{Lines: []CartLine{{Id: 2, Quantity: 3}, {Id: 5, Quantity: 1}}}

	i, ok := cart.Find(5)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, 3, cart.Reserved(2))
	assert.Equal(t, 0, cart.Reserved(9))

	clone := cart.Clone()
	clone.Lines[0].Quantity = 7
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	assert.True(t, cart.Remove(2))
	assert.False(t, cart.Remove(2))
	assert.Equal(t, []CartLine{{Id: 5, Quantity: 1}}, cart.Lines)
	assert.False(t, cart.IsEmpty())
	assert.True(t, Cart{}.IsEmpty())
}

func TestCartLineTotal(t *testing.T) {
	line := CartLine{Id: 1, Price: 0.1, Quantity: 3}
	assert.Equal(t, 0.3, line.Total().InexactFloat64())
	assert.True(t, CartLine{Price: 19.99}.Total().IsZero())
}

func TestStockError(t *testing.T) {
	var err error = &StockError{ProductId: 1, Name: "iPhone 15", Requested: 5, Available: 3}

	assert.True(t, errors.Is(err, ErrStockUnavailableAtCheckout))
	assert.False(t, errors.Is(err, ErrStockExhausted))
	assert.Equal(t, "not enough stock for iPhone 15 (requested 5, available 3)", err.Error())
}

func TestCheckoutStateString(t *testing.T) {
	assert.Equal(t, "idle", CheckoutIdle.String())
	assert.Equal(t, "validating", CheckoutValidating.String())
	assert.Equal(t, "committed", CheckoutCommitted.String())
	assert.Equal(t, "rejected", CheckoutRejected.String())
	assert.Equal(t, "unknown", CheckoutState(9).String())
}
