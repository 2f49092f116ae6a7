package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CartLine is one product entry in a cart. AddedAt is stored in UTC and only
// rendered in the display timezone at the API boundary.
type CartLine struct {
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartLines stores the ordered cart contents as a JSON column.
type CartLines []CartLine

// Value implements driver.Valuer.
func (l CartLines) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(CartLines{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *CartLines) Scan(value interface{}) error {
	if value == nil {
		*l = CartLines{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, l)
}

// Find returns the line holding the given product, or nil.
func (l CartLines) Find(productID uint) *CartLine {
	for i := range l {
		if l[i].ProductID == productID {
			return &l[i]
		}
	}
	return nil
}

// Cart is one user's cart persisted as a single row. TotalPrice is a derived
// aggregate recomputed from the catalog on every mutation; Version backs the
// optimistic compare-and-swap save.
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Items      CartLines `gorm:"type:json;not null" json:"items"`
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`
	Version    uint64    `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Cart) TableName() string {
	return "carts"
}
