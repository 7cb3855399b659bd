package cart

import (
	"time"
)

type Cart struct {
	ID         int64     `gorm:"primaryKey"`
	CustomerID int64     `gorm:"column:customer_id;not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`

	Items []CartItem `gorm:"foreignKey:CartID"`
}

type CartItem struct {
	ID        int64     `gorm:"primaryKey"`
	CartID    int64     `gorm:"column:cart_id;not null;index"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UnitPrice int64     `gorm:"column:unit_price;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Cart) TableName() string {
	return "carts"
}

func (CartItem) TableName() string {
	return "cart_items"
}
