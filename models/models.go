package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")

var ErrInvalidInput = errors.New("invalid input")
var ErrStockExhausted = errors.New("no more stock available")
var ErrEmptyCart = errors.New("cart is empty")
var ErrStockUnavailableAtCheckout = errors.New("not enough stock")
var ErrMissingProduct = errors.New("product does not exist")
var ErrConfirmationRequired = errors.New("confirmation required")

// StockError names the cart line that failed checkout validation.
type StockError struct {
	ProductId int
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for %s (requested %d, available %d)", e.Name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrStockUnavailableAtCheckout
}

const (
	DefaultImage    = "https://via.placeholder.com/100"
	DefaultCategory = "Phones"
	AllCategories   = "All"
)

var Categories = []string{"Phones", "Earphones", "Powerbank", "Keyboard", "Mouse", "Smartwatch", "Laptop"}

type Product struct {
	Id          int     `json:"id" yaml:"id" db:"Id"`
	Name        string  `json:"name" yaml:"name" db:"Name"`
	Category    string  `json:"category" yaml:"category" db:"Category"`
	Price       float64 `json:"price" yaml:"price" db:"Price"`
	Quantity    int     `json:"quantity" yaml:"quantity" db:"Quantity"`
	Image       string  `json:"image" yaml:"image" db:"Image"`
	Description string  `json:"description" yaml:"description" db:"Description"`
}

// ProductDraft is the raw add-product form, every field as typed by the user.
type ProductDraft struct {
	Name        string
	Category    string
	Price       string
	Quantity    string
	Image       string
	Description string
}

// CartLine keeps the name and price the product had when the line was created.
// Later catalog price edits do not reach existing lines or receipts.
type CartLine struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Total is price times quantity in decimal arithmetic.
func (l CartLine) Total() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) Find(productId int) (int, bool) {
	for i, l := range c.Lines {
		if l.Id == productId {
			return i, true
		}
	}
	return -1, false
}

func (c *Cart) Reserved(productId int) int {
	if i, ok := c.Find(productId); ok {
		return c.Lines[i].Quantity
	}
	return 0
}

func (c *Cart) Remove(productId int) bool {
	i, ok := c.Find(productId)
	if !ok {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

type Receipt struct {
	Id          string     `json:"id"`
	Lines       []CartLine `json:"lines"`
	Total       float64    `json:"total"`
	PurchasedAt time.Time  `json:"purchased_at"`
	Visible     bool       `json:"visible"`
}

type StockDecrement struct {
	ProductId int
	Quantity  int
}

type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutValidating
	CheckoutCommitted
	CheckoutRejected
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutIdle:
		return "idle"
	case CheckoutValidating:
		return "validating"
	case CheckoutCommitted:
		return "committed"
	case CheckoutRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type CheckoutResult struct {
	State   CheckoutState
	Receipt Receipt
	Failure *StockError
}
