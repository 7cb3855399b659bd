package order_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/nhatminh-dev/drinkstore/internal"
	orderModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/order"
	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
	"github.com/nhatminh-dev/drinkstore/internal/order"
)

// Mock repository for testing
type mockOrderRepository struct {
	orders            map[int64]*orderModel.Order
	ordersByCustomer  map[int64][]*orderModel.Order
	createError       error
	getError          error
	updateStatusError error
	nextID            int64
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders:           make(map[int64]*orderModel.Order),
		ordersByCustomer: make(map[int64][]*orderModel.Order),
		nextID:           1,
	}
}

func (m *mockOrderRepository) Create(o *orderModel.Order) error {
	if m.createError != nil {
		return m.createError
	}
	o.ID = m.nextID
	m.nextID++
	m.orders[o.ID] = o
	m.ordersByCustomer[o.CustomerID] = append(m.ordersByCustomer[o.CustomerID], o)
	return nil
}

func (m *mockOrderRepository) GetByID(id int64) (*orderModel.Order, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	o, exists := m.orders[id]
	if !exists {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (m *mockOrderRepository) ListByCustomerID(customerID int64, limit, offset int) ([]*orderModel.Order, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	orders := m.ordersByCustomer[customerID]
	if orders == nil {
		return []*orderModel.Order{}, nil
	}
	return orders, nil
}

func (m *mockOrderRepository) UpdateStatus(id int64, status string, paidAt *time.Time) error {
	if m.updateStatusError != nil {
		return m.updateStatusError
	}
	o, exists := m.orders[id]
	if !exists {
		return errors.New("order not found")
	}
	o.Status = status
	if paidAt != nil {
		o.PaidAt = paidAt
	}
	o.UpdatedAt = time.Now()
	return nil
}

type mockCatalog struct {
	products map[int64]*productModel.Product
	getError error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{products: make(map[int64]*productModel.Product)}
}

func (m *mockCatalog) GetByID(id int64) (*productModel.Product, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	p, exists := m.products[id]
	if !exists {
		return nil, errors.New("product not found")
	}
	return p, nil
}

var _ = Describe("OrderService", func() {
	var (
		service *order.Service
		repo    *mockOrderRepository
		catalog *mockCatalog
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = newMockOrderRepository()
		catalog = newMockCatalog()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = order.NewService(repo, catalog, logger)

		catalog.products[10] = &productModel.Product{
			ID:       10,
			Name:     "Glenfiddich 12",
			PriceVND: 1200000,
			StockQty: 30,
			IsActive: true,
		}
		catalog.products[11] = &productModel.Product{
			ID:       11,
			Name:     "Hanoi Lager",
			PriceVND: 25000,
			StockQty: 200,
			IsActive: true,
		}
		catalog.products[12] = &productModel.Product{
			ID:       12,
			Name:     "Discontinued Mead",
			PriceVND: 90000,
			IsActive: false,
		}
	})

	Describe("CreateOrder", func() {
		It("should price line items from the catalog", func() {
			created, err := service.CreateOrder(order.CreateOrderDTO{
				CustomerID: 7,
				Items: []order.CreateOrderItemDTO{
					{ProductID: 10, Quantity: 1},
					{ProductID: 11, Quantity: 4},
				},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(order.StatusPending))
			Expect(created.TotalAmount).To(Equal(int64(1200000 + 4*25000)))
			Expect(created.Items).To(HaveLen(2))
			Expect(created.Items[0].UnitPrice).To(Equal(int64(1200000)))
		})

		It("should reject an order with no items", func() {
			_, err := service.CreateOrder(order.CreateOrderDTO{CustomerID: 7})

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeValidationFailed))
		})

		It("should reject non-positive quantities", func() {
			_, err := service.CreateOrder(order.CreateOrderDTO{
				CustomerID: 7,
				Items:      []order.CreateOrderItemDTO{{ProductID: 10, Quantity: 0}},
			})

			Expect(err).To(HaveOccurred())
		})

		It("should reject unknown products", func() {
			_, err := service.CreateOrder(order.CreateOrderDTO{
				CustomerID: 7,
				Items:      []order.CreateOrderItemDTO{{ProductID: 999, Quantity: 1}},
			})

			Expect(err).To(Equal(apperrors.ErrProductNotFound))
		})

		It("should reject inactive products", func() {
			_, err := service.CreateOrder(order.CreateOrderDTO{
				CustomerID: 7,
				Items:      []order.CreateOrderItemDTO{{ProductID: 12, Quantity: 1}},
			})

			Expect(err).To(Equal(apperrors.ErrProductNotFound))
		})
	})

	Describe("GetOrder", func() {
		It("should return a stored order with its items", func() {
			created, err := service.CreateOrder(order.CreateOrderDTO{
				CustomerID: 7,
				Items:      []order.CreateOrderItemDTO{{ProductID: 11, Quantity: 2}},
			})
			Expect(err).NotTo(HaveOccurred())

			found, err := service.GetOrder(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.CustomerID).To(Equal(int64(7)))
			Expect(found.Items).To(HaveLen(1))
		})

		It("should surface order not found", func() {
			_, err := service.GetOrder(404)
			Expect(err).To(Equal(apperrors.ErrOrderNotFound))
		})
	})

	Describe("UpdateStatus", func() {
		var created *order.Order

		BeforeEach(func() {
			var err error
			created, err = service.CreateOrder(order.CreateOrderDTO{
				CustomerID: 7,
				Items:      []order.CreateOrderItemDTO{{ProductID: 10, Quantity: 1}},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should move a pending order to paid and stamp paid_at", func() {
			updated, err := service.UpdateStatus(created.ID, order.StatusPaid)

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(order.StatusPaid))
			Expect(updated.PaidAt).NotTo(BeNil())
			Expect(repo.orders[created.ID].Status).To(Equal("paid"))
		})

		It("should treat a repeated target status as a no-op success", func() {
			_, err := service.UpdateStatus(created.ID, order.StatusPaid)
			Expect(err).NotTo(HaveOccurred())

			again, err := service.UpdateStatus(created.ID, order.StatusPaid)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Status).To(Equal(order.StatusPaid))
		})

		It("should leave the stored order untouched on a rejected transition", func() {
			_, err := service.UpdateStatus(created.ID, order.StatusShipped)

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidTransition))
			Expect(repo.orders[created.ID].Status).To(Equal("pending"))
		})

		It("should walk the full fulfilment path", func() {
			for _, target := range []order.Status{
				order.StatusPaid,
				order.StatusProcessing,
				order.StatusShipped,
				order.StatusDelivered,
			} {
				_, err := service.UpdateStatus(created.ID, target)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(repo.orders[created.ID].Status).To(Equal("delivered"))
		})

		It("should surface order not found", func() {
			_, err := service.UpdateStatus(404, order.StatusPaid)
			Expect(err).To(Equal(apperrors.ErrOrderNotFound))
		})
	})

	Describe("MarkPaid", func() {
		It("should settle a pending order", func() {
			created, err := service.CreateOrder(order.CreateOrderDTO{
				CustomerID: 7,
				Items:      []order.CreateOrderItemDTO{{ProductID: 11, Quantity: 1}},
			})
			Expect(err).NotTo(HaveOccurred())

			paid, err := service.MarkPaid(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(paid.Status).To(Equal(order.StatusPaid))
		})
	})
})
