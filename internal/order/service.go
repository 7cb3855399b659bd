package order

import (
	"log/slog"
	"time"

	errors "github.com/nhatminh-dev/drinkstore/internal"
	orderModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/order"
	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
)

// Repository defines the data access methods for orders
type Repository interface {
	Create(o *orderModel.Order) error
	GetByID(id int64) (*orderModel.Order, error)
	ListByCustomerID(customerID int64, limit, offset int) ([]*orderModel.Order, error)
	UpdateStatus(id int64, status string, paidAt *time.Time) error
}

// Catalog is the slice of the product catalog the order service needs:
// prices come from the catalog, never from the client.
type Catalog interface {
	GetByID(id int64) (*productModel.Product, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
	logger  *slog.Logger
}

func NewService(repo Repository, catalog Catalog, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// CreateOrder prices the requested line items against the catalog and
// persists a new order in Pending.
func (s *Service) CreateOrder(dto CreateOrderDTO) (*Order, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("order validation failed", "error", err, "customer_id", dto.CustomerID)
		return nil, err
	}

	var total int64
	items := make([]orderModel.OrderItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		product, err := s.catalog.GetByID(item.ProductID)
		if err != nil {
			s.logger.Error("product lookup failed for order item",
				"error", err,
				"product_id", item.ProductID,
				"customer_id", dto.CustomerID)
			return nil, errors.ErrProductNotFound
		}
		if !product.IsActive {
			s.logger.Warn("inactive product requested",
				"product_id", product.ID,
				"customer_id", dto.CustomerID)
			return nil, errors.ErrProductNotFound
		}

		total += product.PriceVND * int64(item.Quantity)
		items = append(items, orderModel.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.PriceVND,
		})
	}

	now := time.Now()
	entity := &orderModel.Order{
		CustomerID:  dto.CustomerID,
		TotalAmount: total,
		Status:      string(StatusPending),
		Note:        dto.Note,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(entity); err != nil {
		s.logger.Error("failed to create order", "error", err, "customer_id", dto.CustomerID)
		return nil, err
	}

	s.logger.Info("order created",
		"order_id", entity.ID,
		"customer_id", dto.CustomerID,
		"total_amount", total,
		"items", len(items))

	return FromDataModel(entity), nil
}

func (s *Service) GetOrder(id int64) (*Order, error) {
	entity, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get order", "error", err, "order_id", id)
		return nil, errors.ErrOrderNotFound
	}
	return FromDataModel(entity), nil
}

func (s *Service) GetCustomerOrders(customerID int64, limit, offset int) ([]*Order, error) {
	entities, err := s.repo.ListByCustomerID(customerID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list customer orders", "error", err, "customer_id", customerID)
		return nil, err
	}
	return FromDataModelSlice(entities), nil
}

// UpdateStatus moves an order through the status machine. A request for the
// current status is a no-op success; an illegal target leaves the stored
// order untouched and surfaces InvalidTransition.
func (s *Service) UpdateStatus(id int64, target Status) (*Order, error) {
	entity, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("order not found for status update", "error", err, "order_id", id)
		return nil, errors.ErrOrderNotFound
	}

	current := Status(entity.Status)
	next, err := Transition(current, target)
	if err != nil {
		s.logger.Warn("rejected order status transition",
			"order_id", id,
			"current_status", current,
			"requested_status", target)
		return nil, err
	}

	if next == current {
		s.logger.Info("order already in requested status",
			"order_id", id,
			"status", current)
		return FromDataModel(entity), nil
	}

	var paidAt *time.Time
	if next == StatusPaid {
		now := time.Now()
		paidAt = &now
	}

	if err := s.repo.UpdateStatus(id, string(next), paidAt); err != nil {
		s.logger.Error("failed to update order status", "error", err, "order_id", id)
		return nil, err
	}

	s.logger.Info("order status updated",
		"order_id", id,
		"from", current,
		"to", next)

	entity.Status = string(next)
	if paidAt != nil {
		entity.PaidAt = paidAt
	}
	return FromDataModel(entity), nil
}

// MarkPaid is the settlement entry point into the status machine.
func (s *Service) MarkPaid(id int64) (*Order, error) {
	return s.UpdateStatus(id, StatusPaid)
}
