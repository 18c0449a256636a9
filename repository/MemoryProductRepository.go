package repository

import (
	"context"
	"sync"
	"techStore/models"
)

// MemoryProductRepo keeps the catalog for the lifetime of the process.
type MemoryProductRepo struct {
	mu       sync.RWMutex
	products []models.Product
	lastId   int
}

func NewMemoryProductRepository() *MemoryProductRepo {
	return &MemoryProductRepo{}
}

func (m *MemoryProductRepo) GetProductById(_ context.Context, id int) (p models.Product, exists bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return
	}
	return m.products[i], true, nil
}

func (m *MemoryProductRepo) GetProducts(_ context.Context) (prods []models.Product, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prods = make([]models.Product, len(m.products))
	copy(prods, m.products)
	return
}

func (m *MemoryProductRepo) CreateProduct(_ context.Context, p models.Product) (created models.Product, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastId++
	p.Id = m.lastId
	m.products = append(m.products, p)
	return p, nil
}

func (m *MemoryProductRepo) DeleteProduct(_ context.Context, id int) (deleted bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return true, nil
}

func (m *MemoryProductRepo) SeedProducts(_ context.Context, prods []models.Product) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range prods {
		if m.indexOf(v.Id) >= 0 {
			continue
		}
		m.products = append(m.products, v)
		if v.Id > m.lastId {
			m.lastId = v.Id
		}
	}
	return
}

func (m *MemoryProductRepo) DecrementStock(_ context.Context, items []models.StockDecrement) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range items {
		i := m.indexOf(v.ProductId)
		if i < 0 {
			return &models.StockError{ProductId: v.ProductId, Requested: v.Quantity}
		}
		if m.products[i].Quantity < v.Quantity {
			return &models.StockError{
				ProductId: v.ProductId,
				Name:      m.products[i].Name,
				Requested: v.Quantity,
				Available: m.products[i].Quantity,
			}
		}
	}
	for _, v := range items {
		i := m.indexOf(v.ProductId)
		m.products[i].Quantity -= v.Quantity
	}
	return
}

// SetQuantity overwrites stock on hand. Only seeding and tests use it; checkout
// goes through DecrementStock.
func (m *MemoryProductRepo) SetQuantity(id int, quantity int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 || quantity < 0 {
		return false
	}
	m.products[i].Quantity = quantity
	return true
}

func (m *MemoryProductRepo) indexOf(id int) int {
	for i, p := range m.products {
		if p.Id == id {
			return i
		}
	}
	return -1
}
