package payment

import (
	"encoding/json"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const MethodVNPay = "vnpay"

// Payment is keyed by order: at most one row per order, updated in place
// when the gateway re-delivers a callback.
type Payment struct {
	ID              int64           `gorm:"primaryKey"`
	OrderID         int64           `gorm:"column:order_id;not null;uniqueIndex"`
	AccountID       int64           `gorm:"column:account_id;not null"`
	AmountVND       int64           `gorm:"column:amount_vnd;not null"`
	Method          string          `gorm:"column:method;not null"`
	Status          string          `gorm:"column:status;default:pending"`
	TransactionID   string          `gorm:"column:transaction_id"`
	TxnRef          string          `gorm:"column:txn_ref"`
	BankCode        *string         `gorm:"column:bank_code"`
	GatewayResponse json.RawMessage `gorm:"column:gateway_response;type:jsonb"`
	PaymentDate     *time.Time      `gorm:"column:payment_date"`
	CreatedAt       time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Payment) TableName() string {
	return "payments"
}
