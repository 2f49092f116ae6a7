package models

import (
	"time"

	"gorm.io/gorm"
)

// Availability states derived from the stock column.
const (
	ProductAvailable    = "available"
	ProductOutOfStock   = "out_of_stock"
	ProductDiscontinued = "discontinued"
)

// Product is the catalog row. Stock carries availability in-band: -1 means
// discontinued (soft deleted), 0 out of stock, positive sellable.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    string         `gorm:"type:varchar(100);not null;index" json:"category"`
	Brand       string         `gorm:"type:varchar(100);not null" json:"brand"`
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Images      StringArray    `gorm:"type:json" json:"images"`
	Likes       int            `gorm:"not null;default:0" json:"likes"`
	Rating      float64        `gorm:"not null;default:0" json:"rating"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// Availability maps the stock tri-state to an enumerated status.
func (p *Product) Availability() string {
	switch {
	case p.Stock < 0:
		return ProductDiscontinued
	case p.Stock == 0:
		return ProductOutOfStock
	default:
		return ProductAvailable
	}
}

// Sellable reports whether the product can be added to a cart.
func (p *Product) Sellable() bool {
	return p.Stock > 0
}
