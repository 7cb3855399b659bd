package catalog

import (
	"log/slog"

	errors "github.com/nhatminh-dev/drinkstore/internal"
	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
)

type RepositoryAPI interface {
	GetAll() ([]*productModel.Product, error)
	GetByID(id int64) (*productModel.Product, error)
	DecrementStock(productID int64, quantity int) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts returns the active catalog.
func (s *Service) ListProducts() ([]*Product, error) {
	entities, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get products from repository", "error", err)
		return nil, err
	}

	products := make([]*Product, 0, len(entities))
	for _, entity := range entities {
		if entity.IsActive {
			products = append(products, FromDataModel(entity))
		}
	}

	s.logger.Info("retrieved products", "count", len(products))
	return products, nil
}

func (s *Service) GetProduct(id int64) (*Product, error) {
	entity, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get product", "error", err, "product_id", id)
		return nil, errors.ErrProductNotFound
	}
	if !entity.IsActive {
		return nil, errors.ErrProductNotFound
	}
	return FromDataModel(entity), nil
}

// GetByID exposes the raw datamodel for services that price against the
// catalog. Inactive products are returned here; callers decide.
func (s *Service) GetByID(id int64) (*productModel.Product, error) {
	return s.repo.GetByID(id)
}

// DecrementStock reduces inventory after a settled order. Stock going
// negative is clamped at the repository.
func (s *Service) DecrementStock(productID int64, quantity int) error {
	if err := s.repo.DecrementStock(productID, quantity); err != nil {
		s.logger.Error("failed to decrement stock",
			"error", err,
			"product_id", productID,
			"quantity", quantity)
		return err
	}
	s.logger.Info("stock decremented", "product_id", productID, "quantity", quantity)
	return nil
}
