package postgres

import (
	"time"

	"gorm.io/gorm"

	paymentModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/payment"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *paymentModel.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByOrderID(orderID int64) (*paymentModel.Payment, error) {
	var p paymentModel.Payment
	err := r.db.First(&p, "order_id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByID(id int64) (*paymentModel.Payment, error) {
	var p paymentModel.Payment
	err := r.db.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatus(id int64, status, transactionID string, paymentDate *time.Time, gatewayResponse []byte) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	if paymentDate != nil {
		updates["payment_date"] = *paymentDate
	}
	if len(gatewayResponse) > 0 {
		updates["gateway_response"] = gatewayResponse
	}
	return r.db.Model(&paymentModel.Payment{}).Where("id = ?", id).Updates(updates).Error
}

func (r *PaymentRepository) ListByStatus(status string, limit, offset int) ([]*paymentModel.Payment, error) {
	var payments []*paymentModel.Payment
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
