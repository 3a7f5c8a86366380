package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products. Names are unique.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Product is a catalogue item. Category holds the category name and
// CategoryID links to the Category row of the same name; renaming or
// deleting a category does not rewrite existing products.
type Product struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:100;not null;index" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Category        string          `gorm:"size:50;not null;index" json:"category"`
	CategoryID      *uint           `gorm:"index" json:"category_id,omitempty"`
	CategoryRel     *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Image           *string         `gorm:"size:255" json:"image,omitempty"`
	ManufactureDate *time.Time      `gorm:"type:date" json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	Quantity        int             `gorm:"not null;default:0" json:"quantity"`
	CreatedAt       time.Time       `json:"-"`
	UpdatedAt       time.Time       `json:"-"`
}

// InStock reports whether qty units, at least one, can be taken from
// current stock.
func (p *Product) InStock(qty int) bool {
	return qty >= 1 && qty <= p.Quantity
}

// CanAdd reports whether qty more units fit next to held units already in
// a cart. It never overflows.
func (p *Product) CanAdd(held, qty int) bool {
	return qty >= 1 && held >= 0 && held <= p.Quantity && qty <= p.Quantity-held
}

// LineTotal is the unit price multiplied by qty.
func (p *Product) LineTotal(qty int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(qty)))
}
