package catalog

import (
	"context"
	"fmt"
	"log/slog"

	orderModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/order"
	"github.com/nhatminh-dev/drinkstore/internal/core/events"
)

type OrderReader interface {
	GetByID(id int64) (*orderModel.Order, error)
}

// EventHandler keeps inventory in sync with settlements: every completed
// payment decrements stock for the order's line items.
type EventHandler struct {
	service *Service
	orders  OrderReader
	logger  *slog.Logger
}

func NewEventHandler(service *Service, orders OrderReader, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		orders:  orders,
		logger:  logger,
	}
}

func (h *EventHandler) HandlePaymentCompleted(ctx context.Context, event events.Event) error {
	paymentEvent, ok := event.(*events.PaymentCompletedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment completed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentCompletedEvent, got %T", event)
	}

	h.logger.Info("handling payment completed event for stock adjustment",
		"order_id", paymentEvent.OrderID,
		"payment_id", paymentEvent.PaymentID,
		"event_id", paymentEvent.EventID())

	entity, err := h.orders.GetByID(paymentEvent.OrderID)
	if err != nil {
		h.logger.Error("failed to load order for stock adjustment",
			"error", err,
			"order_id", paymentEvent.OrderID,
			"event_id", paymentEvent.EventID())
		return fmt.Errorf("stock adjustment failed for order %d: %w", paymentEvent.OrderID, err)
	}

	for _, item := range entity.Items {
		if err := h.service.DecrementStock(item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("stock adjustment failed for product %d: %w", item.ProductID, err)
		}
	}

	h.logger.Info("stock adjusted for settled order",
		"order_id", paymentEvent.OrderID,
		"items", len(entity.Items))

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePaymentCompleted, h.HandlePaymentCompleted)

	h.logger.Info("catalog event handlers registered",
		"handlers", []string{events.EventTypePaymentCompleted})
}
