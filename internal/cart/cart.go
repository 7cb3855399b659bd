package cart

import (
	"time"

	cartModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/cart"
)

type Cart struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Items      []Item    `json:"items"`
	TotalVND   int64     `json:"total_vnd"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Item struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

func FromDataModel(c *cartModel.Cart) *Cart {
	items := make([]Item, len(c.Items))
	var total int64
	for i, item := range c.Items {
		items[i] = Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		total += item.UnitPrice * int64(item.Quantity)
	}
	return &Cart{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Items:      items,
		TotalVND:   total,
		UpdatedAt:  c.UpdatedAt,
	}
}
