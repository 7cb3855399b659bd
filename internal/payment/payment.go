package payment

import (
	"time"

	paymentModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/payment"
)

type Payment struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"order_id"`
	AmountVND     int64      `json:"amount_vnd"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	TxnRef        string     `json:"txn_ref"`
	BankCode      *string    `json:"bank_code,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (p *Payment) IsCompleted() bool {
	return p.Status == paymentModel.StatusCompleted
}

func FromDataModel(p *paymentModel.Payment) *Payment {
	return &Payment{
		ID:            p.ID,
		OrderID:       p.OrderID,
		AmountVND:     p.AmountVND,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		TxnRef:        p.TxnRef,
		BankCode:      p.BankCode,
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
