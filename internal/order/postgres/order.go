package postgres

import (
	"time"

	"gorm.io/gorm"

	orderModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/order"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *orderModel.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id int64) (*orderModel.Order, error) {
	var o orderModel.Order
	err := r.db.Preload("Items").First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByCustomerID(customerID int64, limit, offset int) ([]*orderModel.Order, error) {
	var orders []*orderModel.Order
	err := r.db.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(id int64, status string, paidAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	return r.db.Model(&orderModel.Order{}).Where("id = ?", id).Updates(updates).Error
}
