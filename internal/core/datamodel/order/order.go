package order

import (
	"time"
)

type Order struct {
	ID          int64      `gorm:"primaryKey"`
	CustomerID  int64      `gorm:"column:customer_id;not null;index"`
	TotalAmount int64      `gorm:"column:total_amount;not null"`
	Status      string     `gorm:"column:status;default:pending"`
	Note        *string    `gorm:"column:note"`
	PaidAt      *time.Time `gorm:"column:paid_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID        int64 `gorm:"primaryKey"`
	OrderID   int64 `gorm:"column:order_id;not null;index"`
	ProductID int64 `gorm:"column:product_id;not null"`
	Quantity  int   `gorm:"column:quantity;not null"`
	UnitPrice int64 `gorm:"column:unit_price;not null"`
}

func (Order) TableName() string {
	return "orders"
}

func (OrderItem) TableName() string {
	return "order_items"
}
