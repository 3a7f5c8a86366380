package seeders

import (
	"github.com/shashiranjanraj/grocery/app/models"
	"gorm.io/gorm"
)

// DefaultCategories are created by SeedCategories when missing.
var DefaultCategories = []string{"Fruits", "Vegetables", "Dairy", "Bakery", "Beverages"}

func init() {
	Register("categories", SeedCategories)
}

// SeedCategories inserts any default category that does not exist yet.
func SeedCategories(db *gorm.DB) error {
	for _, name := range DefaultCategories {
		c := models.Category{Name: name}
		if err := db.Where(models.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	return nil
}
