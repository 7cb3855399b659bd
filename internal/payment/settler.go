package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	paymentModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/payment"
	"github.com/nhatminh-dev/drinkstore/internal/core/events"
	"github.com/nhatminh-dev/drinkstore/internal/order"
	"github.com/nhatminh-dev/drinkstore/internal/vnpay"
)

// CartsAPI is the settlement side effect on the customer's cart.
type CartsAPI interface {
	ClearCart(customerID int64) error
}

// Settler applies a confirmed gateway callback to local state. Every step is
// idempotent so a redelivered confirmation converges on the same outcome.
type Settler struct {
	repo     Repository
	orders   OrdersAPI
	carts    CartsAPI
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewSettler(repo Repository, orders OrdersAPI, carts CartsAPI, eventBus *events.EventBus, logger *slog.Logger) *Settler {
	return &Settler{
		repo:     repo,
		orders:   orders,
		carts:    carts,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Settle records the completed payment, marks the order paid, clears the
// customer's cart and announces the settlement. Safe to run twice: the
// payment row is keyed by order id, Paid to Paid is a no-op and clearing an
// empty cart does nothing.
func (s *Settler) Settle(ctx context.Context, ord *order.Order, confirm vnpay.ReturnParams) error {
	// The order must be able to reach Paid before anything is written. A
	// confirmation for a cancelled order otherwise leaves a Completed
	// payment row behind an order that never settled.
	if _, err := order.Transition(ord.Status, order.StatusPaid); err != nil {
		return fmt.Errorf("order %d cannot settle from %s: %w", ord.ID, ord.Status, err)
	}

	transactionID := confirm.TransactionNo
	if transactionID == "" {
		transactionID = confirm.TxnRef
	}

	entity, err := s.upsertPayment(ord, confirm, paymentModel.StatusCompleted, transactionID)
	if err != nil {
		return fmt.Errorf("upsert payment for order %d: %w", ord.ID, err)
	}

	if _, err := s.orders.MarkPaid(ord.ID); err != nil {
		return fmt.Errorf("mark order %d paid: %w", ord.ID, err)
	}

	if err := s.eventBus.Publish(ctx, events.NewOrderPaidEvent(ord.ID, ord.CustomerID, ord.TotalAmount)); err != nil {
		s.logger.Error("failed to publish order paid event",
			"error", err,
			"order_id", ord.ID)
	}

	if err := s.carts.ClearCart(ord.CustomerID); err != nil {
		s.logger.Error("failed to clear cart after settlement",
			"error", err,
			"order_id", ord.ID,
			"customer_id", ord.CustomerID)
	}

	event := events.NewPaymentCompletedEvent(
		entity.ID,
		ord.ID,
		ord.CustomerID,
		ord.TotalAmount,
		transactionID,
		confirm.BankCode,
	)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish payment completed event",
			"error", err,
			"order_id", ord.ID)
	}

	s.logger.Info("order settled",
		"order_id", ord.ID,
		"payment_id", entity.ID,
		"transaction_id", transactionID,
		"amount", ord.TotalAmount)

	return nil
}

// RecordFailure stores the failed attempt and announces it. The order stays
// where it is; the customer can retry payment.
func (s *Settler) RecordFailure(ctx context.Context, ord *order.Order, confirm vnpay.ReturnParams) error {
	transactionID := confirm.TransactionNo
	if transactionID == "" {
		transactionID = confirm.TxnRef
	}

	if _, err := s.upsertPayment(ord, confirm, paymentModel.StatusFailed, transactionID); err != nil {
		return fmt.Errorf("record failed payment for order %d: %w", ord.ID, err)
	}

	event := events.NewPaymentFailedEvent(
		ord.ID,
		confirm.TxnRef,
		confirm.ResponseCode,
		fmt.Sprintf("gateway declined with code %s", confirm.ResponseCode),
	)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish payment failed event",
			"error", err,
			"order_id", ord.ID)
	}

	s.logger.Info("payment failure recorded",
		"order_id", ord.ID,
		"txn_ref", confirm.TxnRef,
		"response_code", confirm.ResponseCode)

	return nil
}

func (s *Settler) upsertPayment(ord *order.Order, confirm vnpay.ReturnParams, status, transactionID string) (*paymentModel.Payment, error) {
	gatewayResponse := marshalGatewayResponse(confirm)
	payDate := confirm.PayDate

	existing, err := s.repo.GetByOrderID(ord.ID)
	if err == nil {
		if existing.Status == status {
			return existing, nil
		}
		if err := s.repo.UpdateStatus(existing.ID, status, transactionID, &payDate, gatewayResponse); err != nil {
			return nil, err
		}
		existing.Status = status
		existing.TransactionID = transactionID
		existing.PaymentDate = &payDate
		return existing, nil
	}

	var bankCode *string
	if confirm.BankCode != "" {
		bc := confirm.BankCode
		bankCode = &bc
	}

	entity := &paymentModel.Payment{
		OrderID:         ord.ID,
		AccountID:       ord.CustomerID,
		AmountVND:       ord.TotalAmount,
		Method:          paymentModel.MethodVNPay,
		Status:          status,
		TransactionID:   transactionID,
		TxnRef:          confirm.TxnRef,
		BankCode:        bankCode,
		GatewayResponse: gatewayResponse,
		PaymentDate:     &payDate,
	}
	if err := s.repo.Create(entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func marshalGatewayResponse(confirm vnpay.ReturnParams) json.RawMessage {
	fields := make(map[string]string, len(confirm.Raw))
	for _, p := range confirm.Raw {
		if p.Key == vnpay.FieldSecureHash || p.Key == vnpay.FieldSecureHashType {
			continue
		}
		fields[p.Key] = p.Value
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return json.RawMessage(fmt.Sprintf(`{"received_at":%q}`, time.Now().Format(time.RFC3339)))
	}
	return raw
}
