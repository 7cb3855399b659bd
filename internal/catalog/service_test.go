package catalog_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/catalog"
	orderModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/order"
	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
	"github.com/nhatminh-dev/drinkstore/internal/core/events"
)

func TestCatalog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Suite")
}

type mockProductRepository struct {
	products map[int64]*productModel.Product
	getError error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*productModel.Product)}
}

func (m *mockProductRepository) GetAll() ([]*productModel.Product, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	all := make([]*productModel.Product, 0, len(m.products))
	for _, p := range m.products {
		all = append(all, p)
	}
	return all, nil
}

func (m *mockProductRepository) GetByID(id int64) (*productModel.Product, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	p, exists := m.products[id]
	if !exists {
		return nil, errors.New("product not found")
	}
	return p, nil
}

func (m *mockProductRepository) DecrementStock(productID int64, quantity int) error {
	p, exists := m.products[productID]
	if !exists {
		return errors.New("product not found")
	}
	p.StockQty -= quantity
	if p.StockQty < 0 {
		p.StockQty = 0
	}
	return nil
}

type mockOrderReader struct {
	orders map[int64]*orderModel.Order
}

func (m *mockOrderReader) GetByID(id int64) (*orderModel.Order, error) {
	o, exists := m.orders[id]
	if !exists {
		return nil, errors.New("order not found")
	}
	return o, nil
}

var _ = Describe("CatalogService", func() {
	var (
		service *catalog.Service
		repo    *mockProductRepository
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = newMockProductRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = catalog.NewService(repo, logger)

		repo.products[1] = &productModel.Product{
			ID:       1,
			Name:     "Saigon Export",
			Category: "beer",
			PriceVND: 18000,
			StockQty: 120,
			IsActive: true,
		}
		repo.products[2] = &productModel.Product{
			ID:       2,
			Name:     "Nep Moi",
			Category: "spirits",
			PriceVND: 95000,
			StockQty: 8,
			IsActive: true,
		}
		repo.products[3] = &productModel.Product{
			ID:       3,
			Name:     "Delisted Gin",
			Category: "spirits",
			PriceVND: 450000,
			IsActive: false,
		}
	})

	Describe("ListProducts", func() {
		It("should return only active products", func() {
			products, err := service.ListProducts()

			Expect(err).NotTo(HaveOccurred())
			Expect(products).To(HaveLen(2))
			for _, p := range products {
				Expect(p.IsActive).To(BeTrue())
			}
		})
	})

	Describe("GetProduct", func() {
		It("should return an active product", func() {
			p, err := service.GetProduct(1)

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("Saigon Export"))
			Expect(p.InStock()).To(BeTrue())
		})

		It("should hide inactive products", func() {
			_, err := service.GetProduct(3)
			Expect(err).To(Equal(apperrors.ErrProductNotFound))
		})

		It("should surface product not found", func() {
			_, err := service.GetProduct(999)
			Expect(err).To(Equal(apperrors.ErrProductNotFound))
		})
	})

	Describe("DecrementStock", func() {
		It("should reduce inventory", func() {
			Expect(service.DecrementStock(2, 3)).To(Succeed())
			Expect(repo.products[2].StockQty).To(Equal(5))
		})
	})

	Describe("EventHandler", func() {
		var (
			handler *catalog.EventHandler
			orders  *mockOrderReader
		)

		BeforeEach(func() {
			orders = &mockOrderReader{orders: map[int64]*orderModel.Order{
				42: {
					ID: 42,
					Items: []orderModel.OrderItem{
						{ProductID: 1, Quantity: 2},
						{ProductID: 2, Quantity: 1},
					},
				},
			}}
			handler = catalog.NewEventHandler(service, orders, logger)
		})

		It("should decrement stock for each settled line item", func() {
			event := events.NewPaymentCompletedEvent(1, 42, 7, 500000, "14226112", "NCB")

			err := handler.HandlePaymentCompleted(context.Background(), event)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.products[1].StockQty).To(Equal(118))
			Expect(repo.products[2].StockQty).To(Equal(7))
		})

		It("should reject events of the wrong type", func() {
			event := events.NewOrderPaidEvent(42, 7, 500000)

			err := handler.HandlePaymentCompleted(context.Background(), event)
			Expect(err).To(HaveOccurred())
		})

		It("should fail when the order cannot be loaded", func() {
			event := events.NewPaymentCompletedEvent(1, 404, 7, 500000, "14226112", "NCB")

			err := handler.HandlePaymentCompleted(context.Background(), event)
			Expect(err).To(HaveOccurred())
		})
	})
})
