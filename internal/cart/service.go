package cart

import (
	"log/slog"

	errors "github.com/nhatminh-dev/drinkstore/internal"
	cartModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/cart"
	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
)

// Repository defines the data access methods for carts
type Repository interface {
	GetByCustomerID(customerID int64) (*cartModel.Cart, error)
	Create(c *cartModel.Cart) error
	UpsertItem(cartID int64, item *cartModel.CartItem) error
	DeleteItems(cartID int64) error
}

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

// GetCart returns the customer's cart, creating an empty one on first use.
func (s *Service) GetCart(customerID int64) (*Cart, error) {
	entity, err := s.ensureCart(customerID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(entity), nil
}

// AddItem puts a product into the cart at its current catalog price. Adding
// a product already in the cart accumulates quantity.
func (s *Service) AddItem(customerID int64, dto AddItemDTO) (*Cart, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("AddItem: validation failed", "error", err, "customer_id", customerID)
		return nil, err
	}

	product, err := s.catalog.GetByID(dto.ProductID)
	if err != nil {
		s.logger.Error("AddItem: product lookup failed",
			"error", err,
			"product_id", dto.ProductID,
			"customer_id", customerID)
		return nil, errors.ErrProductNotFound
	}
	if !product.IsActive {
		s.logger.Warn("AddItem: inactive product requested",
			"product_id", product.ID,
			"customer_id", customerID)
		return nil, errors.ErrProductNotFound
	}

	entity, err := s.ensureCart(customerID)
	if err != nil {
		return nil, err
	}

	item := &cartModel.CartItem{
		CartID:    entity.ID,
		ProductID: product.ID,
		Quantity:  dto.Quantity,
		UnitPrice: product.PriceVND,
	}
	if err := s.repo.UpsertItem(entity.ID, item); err != nil {
		s.logger.Error("AddItem: failed to persist cart item",
			"error", err,
			"cart_id", entity.ID,
			"product_id", product.ID)
		return nil, err
	}

	updated, err := s.repo.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart item added",
		"customer_id", customerID,
		"product_id", product.ID,
		"quantity", dto.Quantity)

	return FromDataModel(updated), nil
}

// ClearCart empties the customer's cart. A missing cart is treated as
// already clear so settlement can call this repeatedly without special
// casing.
func (s *Service) ClearCart(customerID int64) error {
	entity, err := s.repo.GetByCustomerID(customerID)
	if err != nil {
		s.logger.Info("ClearCart: no cart for customer, nothing to do",
			"customer_id", customerID)
		return nil
	}

	if err := s.repo.DeleteItems(entity.ID); err != nil {
		s.logger.Error("ClearCart: failed to delete cart items",
			"error", err,
			"cart_id", entity.ID)
		return err
	}

	s.logger.Info("cart cleared", "customer_id", customerID, "cart_id", entity.ID)
	return nil
}

func (s *Service) ensureCart(customerID int64) (*cartModel.Cart, error) {
	entity, err := s.repo.GetByCustomerID(customerID)
	if err == nil {
		return entity, nil
	}

	entity = &cartModel.Cart{CustomerID: customerID}
	if err := s.repo.Create(entity); err != nil {
		s.logger.Error("failed to create cart", "error", err, "customer_id", customerID)
		return nil, err
	}
	return entity, nil
}
