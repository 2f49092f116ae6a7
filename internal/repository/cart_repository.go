package repository

import (
	"errors"

	"github.com/shopmitra/internal/models"

	"gorm.io/gorm"
)

// ErrCartVersionConflict is returned when a compare-and-swap save loses to a
// concurrent writer. Callers reload the cart and re-apply their change.
var ErrCartVersionConflict = errors.New("cart version conflict")

// CartRepository is the cart data access interface.
type CartRepository interface {
	Create(cart *models.Cart) error
	GetByID(id uint) (*models.Cart, error)
	Save(cart *models.Cart) error
	ListIDs(offset, limit int) ([]uint, error)
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a cart repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Create inserts a cart.
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// GetByID fetches a cart by ID.
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.First(&cart, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Save persists the cart guarded by its version: the update only lands when
// the stored version still matches the one the cart was loaded at. On success
// the in-memory version is advanced to match the row.
func (r *GormCartRepository) Save(cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	result := r.db.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]interface{}{
			"items":       cart.Items,
			"total_price": cart.TotalPrice,
			"version":     cart.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartVersionConflict
	}
	cart.Version++
	return nil
}

// ListIDs returns a page of cart IDs in ascending order, for batch walks.
func (r *GormCartRepository) ListIDs(offset, limit int) ([]uint, error) {
	if limit <= 0 {
		return []uint{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	var ids []uint
	if err := r.db.Model(&models.Cart{}).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
