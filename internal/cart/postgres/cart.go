package postgres

import (
	"time"

	"gorm.io/gorm"

	cartModel "github.com/nhatminh-dev/drinkstore/internal/core/datamodel/cart"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetByCustomerID(customerID int64) (*cartModel.Cart, error) {
	var c cartModel.Cart
	err := r.db.Preload("Items").First(&c, "customer_id = ?", customerID).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) Create(c *cartModel.Cart) error {
	return r.db.Create(c).Error
}

// UpsertItem accumulates quantity when the product is already in the cart
// and re-stamps the unit price from the latest catalog lookup.
func (r *CartRepository) UpsertItem(cartID int64, item *cartModel.CartItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing cartModel.CartItem
		err := tx.First(&existing, "cart_id = ? AND product_id = ?", cartID, item.ProductID).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(item).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]interface{}{
			"quantity":   existing.Quantity + item.Quantity,
			"unit_price": item.UnitPrice,
		}).Error
	})
}

func (r *CartRepository) DeleteItems(cartID int64) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&cartModel.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Model(&cartModel.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}
