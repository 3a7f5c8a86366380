package repositories

import (
	"context"

	"github.com/shashiranjanraj/grocery/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository handles database operations for Cart lines.
type CartRepository interface {
	// ForUser returns the user's cart lines with their products loaded.
	ForUser(ctx context.Context, userID uint) ([]models.Cart, error)
	// ForCheckout is ForUser with the product rows locked FOR UPDATE where
	// the database supports row locks. Call it inside a transaction.
	ForCheckout(ctx context.Context, userID uint) ([]models.Cart, error)
	Find(ctx context.Context, userID, productID uint) (*models.Cart, error)
	Create(ctx context.Context, line *models.Cart) error
	Update(ctx context.Context, line *models.Cart) error
	Delete(ctx context.Context, userID, productID uint) error
	// Clear deletes every cart line of the user and reports how many went.
	Clear(ctx context.Context, userID uint) (int64, error)
}

type cartRepository struct{ db *gorm.DB }

func (r *cartRepository) ForUser(ctx context.Context, userID uint) ([]models.Cart, error) {
	var lines []models.Cart
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *cartRepository) ForCheckout(ctx context.Context, userID uint) ([]models.Cart, error) {
	var lines []models.Cart
	err := r.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB {
			if rowLocks(db) {
				return db.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			return db
		}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

// rowLocks reports whether the dialect understands SELECT ... FOR UPDATE.
func rowLocks(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return true
	}
	return false
}

func (r *cartRepository) Find(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	var line models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error
	if err != nil {
		return nil, translate(err)
	}
	return &line, nil
}

func (r *cartRepository) Create(ctx context.Context, line *models.Cart) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error)
}

func (r *cartRepository) Update(ctx context.Context, line *models.Cart) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(line).Error)
}

func (r *cartRepository) Delete(ctx context.Context, userID, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Cart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}

// OrderRepository handles database operations for Order and OrderItem.
type OrderRepository interface {
	// Create inserts the order and then its Items.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	// ForUser lists the user's orders, newest first, with items and products.
	ForUser(ctx context.Context, userID uint) ([]models.Order, error)
	// ItemsForUser lists every item the user has ordered, newest order first.
	ItemsForUser(ctx context.Context, userID uint) ([]models.OrderItem, error)
}

type orderRepository struct{ db *gorm.DB }

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			order.Items = items
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		order.Items = items
		if len(items) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&order.Items).Error
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) ForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ItemsForUser(ctx context.Context, userID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ?", userID).
		Order("orders.order_date DESC, orders.id DESC, order_items.id ASC").
		Preload("Product").
		Preload("Order").
		Find(&items).Error
	return items, err
}

// AddressRepository handles database operations for Address.
type AddressRepository interface {
	ForUser(ctx context.Context, userID uint) ([]models.Address, error)
	Create(ctx context.Context, a *models.Address) error
	// Owner returns the user the address belongs to.
	Owner(ctx context.Context, id uint) (uint, error)
	// Delete removes one of the user's addresses.
	Delete(ctx context.Context, userID, id uint) error
	// ClearDefault unsets is_default on every address of the user.
	ClearDefault(ctx context.Context, userID uint) error
}

type addressRepository struct{ db *gorm.DB }

func (r *addressRepository) ForUser(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *addressRepository) Create(ctx context.Context, a *models.Address) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (r *addressRepository) Owner(ctx context.Context, id uint) (uint, error) {
	var a models.Address
	err := r.db.WithContext(ctx).Select("id", "user_id").First(&a, id).Error
	if err != nil {
		return 0, translate(err)
	}
	return a.UserID, nil
}

func (r *addressRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Address{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *addressRepository) ClearDefault(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

// PaymentRepository handles database operations for Payment.
type PaymentRepository interface {
	ForOrder(ctx context.Context, orderID uint) ([]models.Payment, error)
	Create(ctx context.Context, p *models.Payment) error
}

type paymentRepository struct{ db *gorm.DB }

func (r *paymentRepository) ForOrder(ctx context.Context, orderID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}
