package entities

import (
	"techStore/models"
	"time"
)

type ProductForm struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (f ProductForm) Draft() models.ProductDraft {
	return models.ProductDraft{
		Name:        f.Name,
		Category:    f.Category,
		Price:       f.Price,
		Quantity:    f.Quantity,
		Image:       f.Image,
		Description: f.Description,
	}
}

type ProductPreview struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	InStock  int     `json:"in_stock"`
	Image    string  `json:"image"`
}

type CartItem struct {
	Id        int     `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	SumPrice  float64 `json:"sum_price"`
	Available bool    `json:"available"`
}

type CartResponse struct {
	Products   []CartItem `json:"products"`
	TotalPrice float64    `json:"total_price"`
}

type ReceiptResponse struct {
	Id          string     `json:"id"`
	Products    []CartItem `json:"products"`
	TotalPrice  float64    `json:"total_price"`
	PurchasedAt time.Time  `json:"purchased_at"`
	Visible     bool       `json:"visible"`
}

type CheckoutResponse struct {
	Status  string           `json:"status"`
	Receipt *ReceiptResponse `json:"receipt,omitempty"`
	Reason  string           `json:"reason,omitempty"`
	Product *int             `json:"product_id,omitempty"`
}

type ConfirmationPrompt struct {
	Message   string `json:"message"`
	ProductId int    `json:"product_id"`
	Confirm   string `json:"confirm"`
}

func NewReceiptResponse(r models.Receipt) ReceiptResponse {
	items := make([]CartItem, 0, len(r.Lines))
	for _, l := range r.Lines {
		items = append(items, CartItem{
			Id:        l.Id,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
			SumPrice:  l.Total().InexactFloat64(),
			Available: true,
		})
	}
	return ReceiptResponse{
		Id:          r.Id,
		Products:    items,
		TotalPrice:  r.Total,
		PurchasedAt: r.PurchasedAt,
		Visible:     r.Visible,
	}
}

func NewProductPreview(p models.Product) ProductPreview {
	return ProductPreview{
		Id:       p.Id,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		InStock:  p.Quantity,
		Image:    p.Image,
	}
}
