package repository

import (
	"context"
	"sync"
	"techStore/models"
	"time"

	"github.com/google/uuid"
)

// expiring is a session-keyed map whose entries lapse ttl after their last
// write or touch, the way the redis keys do. A ttl of zero never expires.
// Lapsed entries are swept on writes at most once per ttl.
type expiring[V any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]expiringEntry[V]
}

type expiringEntry[V any] struct {
	value     V
	expiresAt time.Time
}

func newExpiring[V any](ttl time.Duration) *expiring[V] {
	return &expiring[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]expiringEntry[V]),
	}
}

func (e *expiring[V]) lapsed(entry expiringEntry[V], now time.Time) bool {
	return e.ttl > 0 && !now.Before(entry.expiresAt)
}

func (e *expiring[V]) sweep(now time.Time) {
	if e.ttl <= 0 || now.Sub(e.lastSweep) < e.ttl {
		return
	}
	e.lastSweep = now
	for key, entry := range e.entries {
		if e.lapsed(entry, now) {
			delete(e.entries, key)
		}
	}
}

func (e *expiring[V]) set(key string, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	e.sweep(now)
	e.entries[key] = expiringEntry[V]{value: value, expiresAt: now.Add(e.ttl)}
}

func (e *expiring[V]) get(key string) (value V, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.entries[key]
	if !ok {
		return
	}
	if e.lapsed(entry, e.now()) {
		delete(e.entries, key)
		return value, false
	}
	return entry.value, true
}

func (e *expiring[V]) delete(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.entries, key)
}

// touch restarts the ttl of a live entry.
func (e *expiring[V]) touch(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	entry, ok := e.entries[key]
	if !ok {
		return
	}
	if e.lapsed(entry, now) {
		delete(e.entries, key)
		return
	}
	entry.expiresAt = now.Add(e.ttl)
	e.entries[key] = entry
}

func (e *expiring[V]) len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

type MemoryCartRepo struct {
	carts *expiring[models.Cart]
}

func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepo {
	return &MemoryCartRepo{carts: newExpiring[models.Cart](ttl)}
}

func (m *MemoryCartRepo) SetCart(_ context.Context, cartSessionId string, cart models.Cart) (err error) {
	m.carts.set(cartSessionId, cart.Clone())
	return
}

func (m *MemoryCartRepo) GetCart(_ context.Context, cartSessionId string) (res models.Cart, err error) {
	cart, _ := m.carts.get(cartSessionId)
	return cart.Clone(), nil
}

func (m *MemoryCartRepo) DeleteCart(_ context.Context, cartSessionId string) (err error) {
	m.carts.delete(cartSessionId)
	return
}

type MemoryReceiptRepo struct {
	receipts *expiring[models.Receipt]
}

func NewMemoryReceiptRepository(ttl time.Duration) *MemoryReceiptRepo {
	return &MemoryReceiptRepo{receipts: newExpiring[models.Receipt](ttl)}
}

func (m *MemoryReceiptRepo) SetReceipt(_ context.Context, cartSessionId string, receipt models.Receipt) (err error) {
	receipt.Lines = models.Cart{Lines: receipt.Lines}.Clone().Lines
	m.receipts.set(cartSessionId, receipt)
	return
}

func (m *MemoryReceiptRepo) GetReceipt(_ context.Context, cartSessionId string) (receipt models.Receipt, exists bool, err error) {
	receipt, exists = m.receipts.get(cartSessionId)
	if exists {
		receipt.Lines = models.Cart{Lines: receipt.Lines}.Clone().Lines
	}
	return
}

type MemorySessionRepo struct {
	sessions *expiring[struct{}]
	carts    *MemoryCartRepo
	receipts *MemoryReceiptRepo
}

// NewMemorySessionRepository keeps sessions for ttl. Refreshing a session
// also extends the cart and receipt stored under it; either repo may be nil.
func NewMemorySessionRepository(ttl time.Duration, carts *MemoryCartRepo, receipts *MemoryReceiptRepo) *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: newExpiring[struct{}](ttl),
		carts:    carts,
		receipts: receipts,
	}
}

func (m *MemorySessionRepo) CreateSession(_ context.Context) (sessionId string, err error) {
	sessionId = uuid.NewString()
	m.sessions.set(sessionId, struct{}{})
	return
}

func (m *MemorySessionRepo) CheckSession(_ context.Context, sessionId string) (bool, error) {
	_, ok := m.sessions.get(sessionId)
	return ok, nil
}

func (m *MemorySessionRepo) RefreshSession(_ context.Context, sessionId string) (err error) {
	m.sessions.touch(sessionId)
	if m.carts != nil {
		m.carts.carts.touch(sessionId)
	}
	if m.receipts != nil {
		m.receipts.receipts.touch(sessionId)
	}
	return
}
