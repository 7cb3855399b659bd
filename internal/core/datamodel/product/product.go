package product

import (
	"time"
)

type Product struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Category    string    `gorm:"column:category;index"`
	Description string    `gorm:"column:description"`
	PriceVND    int64     `gorm:"column:price_vnd;not null"`
	StockQty    int       `gorm:"column:stock_qty;not null;default:0"`
	VolumeML    int       `gorm:"column:volume_ml"`
	ABV         float64   `gorm:"column:abv"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Product) TableName() string {
	return "products"
}
