package cart_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/cart"
	cartModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/cart"
	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
)

func TestCart(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cart Suite")
}

type mockCartRepository struct {
	carts       map[int64]*cartModel.Cart
	createError error
	itemError   error
	nextID      int64
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts:  make(map[int64]*cartModel.Cart),
		nextID: 1,
	}
}

func (m *mockCartRepository) GetByCustomerID(customerID int64) (*cartModel.Cart, error) {
	c, exists := m.carts[customerID]
	if !exists {
		return nil, errors.New("cart not found")
	}
	return c, nil
}

func (m *mockCartRepository) Create(c *cartModel.Cart) error {
	if m.createError != nil {
		return m.createError
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.carts[c.CustomerID] = c
	return nil
}

func (m *mockCartRepository) UpsertItem(cartID int64, item *cartModel.CartItem) error {
	if m.itemError != nil {
		return m.itemError
	}
	for _, c := range m.carts {
		if c.ID != cartID {
			continue
		}
		for i := range c.Items {
			if c.Items[i].ProductID == item.ProductID {
				c.Items[i].Quantity += item.Quantity
				c.Items[i].UnitPrice = item.UnitPrice
				return nil
			}
		}
		c.Items = append(c.Items, *item)
		return nil
	}
	return errors.New("cart not found")
}

func (m *mockCartRepository) DeleteItems(cartID int64) error {
	if m.itemError != nil {
		return m.itemError
	}
	for _, c := range m.carts {
		if c.ID == cartID {
			c.Items = nil
			return nil
		}
	}
	return errors.New("cart not found")
}

type mockCatalog struct {
	products map[int64]*productModel.Product
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{products: make(map[int64]*productModel.Product)}
}

func (m *mockCatalog) GetByID(id int64) (*productModel.Product, error) {
	p, exists := m.products[id]
	if !exists {
		return nil, errors.New("product not found")
	}
	return p, nil
}

var _ = Describe("CartService", func() {
	var (
		service *cart.Service
		repo    *mockCartRepository
		catalog *mockCatalog
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = newMockCartRepository()
		catalog = newMockCatalog()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = cart.NewService(repo, catalog, logger)

		catalog.products[20] = &productModel.Product{
			ID:       20,
			Name:     "Dalat Red",
			PriceVND: 180000,
			IsActive: true,
		}
		catalog.products[21] = &productModel.Product{
			ID:       21,
			Name:     "Retired Cider",
			PriceVND: 40000,
			IsActive: false,
		}
	})

	Describe("GetCart", func() {
		It("should create an empty cart on first access", func() {
			c, err := service.GetCart(5)

			Expect(err).NotTo(HaveOccurred())
			Expect(c.CustomerID).To(Equal(int64(5)))
			Expect(c.Items).To(BeEmpty())
			Expect(c.TotalVND).To(Equal(int64(0)))
		})
	})

	Describe("AddItem", func() {
		It("should price the item from the catalog", func() {
			c, err := service.AddItem(5, cart.AddItemDTO{ProductID: 20, Quantity: 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(c.Items).To(HaveLen(1))
			Expect(c.Items[0].UnitPrice).To(Equal(int64(180000)))
			Expect(c.TotalVND).To(Equal(int64(360000)))
		})

		It("should accumulate quantity for a repeated product", func() {
			_, err := service.AddItem(5, cart.AddItemDTO{ProductID: 20, Quantity: 1})
			Expect(err).NotTo(HaveOccurred())

			c, err := service.AddItem(5, cart.AddItemDTO{ProductID: 20, Quantity: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Items).To(HaveLen(1))
			Expect(c.Items[0].Quantity).To(Equal(4))
		})

		It("should reject non-positive quantities", func() {
			_, err := service.AddItem(5, cart.AddItemDTO{ProductID: 20, Quantity: 0})

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeValidationFailed))
		})

		It("should reject unknown products", func() {
			_, err := service.AddItem(5, cart.AddItemDTO{ProductID: 999, Quantity: 1})
			Expect(err).To(Equal(apperrors.ErrProductNotFound))
		})

		It("should reject inactive products", func() {
			_, err := service.AddItem(5, cart.AddItemDTO{ProductID: 21, Quantity: 1})
			Expect(err).To(Equal(apperrors.ErrProductNotFound))
		})
	})

	Describe("ClearCart", func() {
		It("should empty an existing cart", func() {
			_, err := service.AddItem(5, cart.AddItemDTO{ProductID: 20, Quantity: 2})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.ClearCart(5)).To(Succeed())

			c, err := service.GetCart(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Items).To(BeEmpty())
		})

		It("should succeed when the customer has no cart", func() {
			Expect(service.ClearCart(404)).To(Succeed())
		})

		It("should be safe to run twice", func() {
			_, err := service.AddItem(5, cart.AddItemDTO{ProductID: 20, Quantity: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.ClearCart(5)).To(Succeed())
			Expect(service.ClearCart(5)).To(Succeed())
		})
	})
})
