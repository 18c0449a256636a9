package metrics

import (
	"errors"
	"testing"

	"techStore/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "stock_exhausted", outcome(models.ErrStockExhausted))
	assert.Equal(t, "missing_product", outcome(models.ErrMissingProduct))
	assert.Equal(t, "error", outcome(errors.New("redis down")))
}

func TestCounters(t *testing.T) {
	m := NewMetrics("techstore_test")

	m.CartOperation("add", nil)
	m.CartOperation("add", nil)
	m.CartOperation("increase", models.ErrStockExhausted)
	m.Checkout(models.CheckoutRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartOperations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartOperations.WithLabelValues("increase", "stock_exhausted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("rejected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("committed")))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartOperation("add", nil)
		m.Checkout(models.CheckoutCommitted)
	})
}
