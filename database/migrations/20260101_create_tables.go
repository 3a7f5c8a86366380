package migrations

import (
	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &tableMigration{model: &models.User{}, table: "users"})
	migration.Register("20260101000001_create_categories_table", &tableMigration{model: &models.Category{}, table: "categories"})
	migration.Register("20260101000002_create_products_table", &tableMigration{model: &models.Product{}, table: "products"})
	migration.Register("20260101000003_create_carts_table", &tableMigration{model: &models.Cart{}, table: "carts"})
	migration.Register("20260101000004_create_orders_table", &tableMigration{model: &models.Order{}, table: "orders"})
	migration.Register("20260101000005_create_order_items_table", &tableMigration{model: &models.OrderItem{}, table: "order_items"})
	migration.Register("20260101000006_create_addresses_table", &tableMigration{model: &models.Address{}, table: "addresses"})
	migration.Register("20260101000007_create_payments_table", &tableMigration{model: &models.Payment{}, table: "payments"})
}

// tableMigration creates one model's table and drops it on rollback.
type tableMigration struct {
	model interface{}
	table string
}

func (m *tableMigration) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *tableMigration) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.table)
}
