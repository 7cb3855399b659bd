package catalog

import (
	"time"

	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
)

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	PriceVND    int64     `json:"price_vnd"`
	StockQty    int       `json:"stock_qty"`
	VolumeML    int       `json:"volume_ml,omitempty"`
	ABV         float64   `json:"abv,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Product) InStock() bool {
	return p.StockQty > 0
}

func FromDataModel(p *productModel.Product) *Product {
	return &Product{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		PriceVND:    p.PriceVND,
		StockQty:    p.StockQty,
		VolumeML:    p.VolumeML,
		ABV:         p.ABV,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func FromDataModelSlice(products []*productModel.Product) []*Product {
	result := make([]*Product, len(products))
	for i, p := range products {
		result[i] = FromDataModel(p)
	}
	return result
}
