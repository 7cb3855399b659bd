package order

import (
	"time"

	orderModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/order"
)

type Order struct {
	ID          int64      `json:"id"`
	CustomerID  int64      `json:"customer_id"`
	TotalAmount int64      `json:"total_amount"`
	Status      Status     `json:"status"`
	Note        *string    `json:"note,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	Items       []Item     `json:"items,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Item struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

func (o *Order) IsPaid() bool {
	return o.Status == StatusPaid
}

func ToDataModel(o *Order) *orderModel.Order {
	items := make([]orderModel.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderModel.OrderItem{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return &orderModel.Order{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		Note:        o.Note,
		PaidAt:      o.PaidAt,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func FromDataModel(o *orderModel.Order) *Order {
	items := make([]Item, len(o.Items))
	for i, item := range o.Items {
		items[i] = Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return &Order{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		Status:      Status(o.Status),
		Note:        o.Note,
		PaidAt:      o.PaidAt,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func FromDataModelSlice(orders []*orderModel.Order) []*Order {
	result := make([]*Order, len(orders))
	for i, o := range orders {
		result[i] = FromDataModel(o)
	}
	return result
}
