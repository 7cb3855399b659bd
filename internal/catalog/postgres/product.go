package postgres

import (
	"time"

	"gorm.io/gorm"

	productModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/product"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetAll() ([]*productModel.Product, error) {
	var products []*productModel.Product
	err := r.db.Order("category, name").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) GetByID(id int64) (*productModel.Product, error) {
	var p productModel.Product
	err := r.db.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock clamps at zero so concurrent settlements cannot drive the
// quantity negative.
func (r *ProductRepository) DecrementStock(productID int64, quantity int) error {
	return r.db.Model(&productModel.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock_qty":  gorm.Expr("GREATEST(stock_qty - ?, 0)", quantity),
			"updated_at": time.Now(),
		}).Error
}
