package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOrderPaid        = "order.paid"
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
)

type OrderPaidEvent struct {
	BaseEvent
	OrderID    int64 `json:"order_id"`
	CustomerID int64 `json:"customer_id"`
	Amount     int64 `json:"amount"`
}

func NewOrderPaidEvent(orderID, customerID, amount int64) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderPaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":    orderID,
				"customer_id": customerID,
				"amount":      amount,
			},
		},
		OrderID:    orderID,
		CustomerID: customerID,
		Amount:     amount,
	}
}

type PaymentCompletedEvent struct {
	BaseEvent
	PaymentID     int64  `json:"payment_id"`
	OrderID       int64  `json:"order_id"`
	CustomerID    int64  `json:"customer_id"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transaction_id"`
	BankCode      string `json:"bank_code"`
}

func NewPaymentCompletedEvent(paymentID, orderID, customerID, amount int64, transactionID, bankCode string) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":     paymentID,
				"order_id":       orderID,
				"customer_id":    customerID,
				"amount":         amount,
				"transaction_id": transactionID,
				"bank_code":      bankCode,
			},
		},
		PaymentID:     paymentID,
		OrderID:       orderID,
		CustomerID:    customerID,
		Amount:        amount,
		TransactionID: transactionID,
		BankCode:      bankCode,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	OrderID      int64  `json:"order_id"`
	TxnRef       string `json:"txn_ref"`
	ResponseCode string `json:"response_code"`
	Reason       string `json:"reason"`
}

func NewPaymentFailedEvent(orderID int64, txnRef, responseCode, reason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":      orderID,
				"txn_ref":       txnRef,
				"response_code": responseCode,
				"reason":        reason,
			},
		},
		OrderID:      orderID,
		TxnRef:       txnRef,
		ResponseCode: responseCode,
		Reason:       reason,
	}
}
