package service

import (
	"errors"
	"time"

	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/repository"
)

const defaultCartSaveRetries = 3

// CartLineDetail is one cart line joined against the current catalog.
// UnitPrice and LineTotal reflect the catalog price at read time, not the
// price when the item was added.
type CartLineDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Product   *models.Product `json:"product,omitempty"`
}

// CartDetail is a cart rendered for responses.
type CartDetail struct {
	CartID     uint             `json:"cart_id"`
	Items      []CartLineDetail `json:"items"`
	TotalPrice models.Money     `json:"total_price"`
}

// CartService owns all cart mutations. Every mutation runs as a
// load-mutate-recompute-save cycle; the save is an optimistic
// compare-and-swap and losing writers retry with a fresh copy.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	saveRetries int
}

// NewCartService creates the cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, saveRetries int) *CartService {
	if saveRetries <= 0 {
		saveRetries = defaultCartSaveRetries
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		saveRetries: saveRetries,
	}
}

// GetCart returns the user's cart with the total recomputed from the current
// catalog. The refreshed total is persisted so the stored aggregate converges.
func (s *CartService) GetCart(userID uint) (*CartDetail, error) {
	cart, err := s.mutate(userID, func(cart *models.Cart) error {
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildDetail(cart)
}

// Snapshot returns the user's cart with a fresh in-memory total, without
// writing anything back. Used by read-only surfaces like the checkout quote.
func (s *CartService) Snapshot(userID uint) (*CartDetail, error) {
	cart, err := s.loadCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeTotal(cart); err != nil {
		return nil, err
	}
	return s.buildDetail(cart)
}

// AddItem adds a product to the cart. Adding a product already present merges
// by increasing that line's quantity and refreshing its added time; there is
// never more than one line per product.
func (s *CartService) AddItem(userID, productID uint, quantity int) (*CartDetail, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	switch product.Availability() {
	case models.ProductOutOfStock:
		return nil, ErrProductOutOfStock
	case models.ProductDiscontinued:
		return nil, ErrProductDiscontinued
	}

	cart, err := s.mutate(userID, func(cart *models.Cart) error {
		now := time.Now().UTC()
		if line := cart.Items.Find(productID); line != nil {
			line.Quantity += quantity
			line.AddedAt = now
			return nil
		}
		cart.Items = append(cart.Items, models.CartLine{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildDetail(cart)
}

// RemoveItem removes a product's line from the cart.
func (s *CartService) RemoveItem(userID, productID uint) (*CartDetail, error) {
	cart, err := s.mutate(userID, func(cart *models.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
		return ErrCartItemNotFound
	})
	if err != nil {
		return nil, err
	}
	return s.buildDetail(cart)
}

// AdjustQuantity steps a line's quantity by one. Increase is unconditional;
// decrease is refused at quantity 1 so a line can only leave the cart through
// RemoveItem.
func (s *CartService) AdjustQuantity(userID, productID uint, action string) (*CartDetail, error) {
	if action != constants.CartActionIncrease && action != constants.CartActionDecrease {
		return nil, ErrInvalidCartAction
	}
	cart, err := s.mutate(userID, func(cart *models.Cart) error {
		line := cart.Items.Find(productID)
		if line == nil {
			return ErrCartItemNotFound
		}
		if action == constants.CartActionIncrease {
			line.Quantity++
			return nil
		}
		if line.Quantity <= 1 {
			return ErrQuantityFloor
		}
		line.Quantity--
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildDetail(cart)
}

// RefreshTotal recomputes and persists one cart's total. Used by the
// background refresh worker after catalog price changes.
func (s *CartService) RefreshTotal(cartID uint) error {
	for attempt := 0; attempt < s.saveRetries; attempt++ {
		cart, err := s.cartRepo.GetByID(cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return nil
		}
		if err := s.recomputeTotal(cart); err != nil {
			return err
		}
		err = s.cartRepo.Save(cart)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrCartVersionConflict) {
			return err
		}
	}
	// A concurrent mutation already recomputed the total, nothing lost.
	return nil
}

func (s *CartService) loadCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	cart, err := s.cartRepo.GetByID(user.CartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

func (s *CartService) mutate(userID uint, fn func(cart *models.Cart) error) (*models.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < s.saveRetries; attempt++ {
		cart, err := s.loadCart(userID)
		if err != nil {
			return nil, err
		}
		if err := fn(cart); err != nil {
			return nil, err
		}
		if err := s.recomputeTotal(cart); err != nil {
			return nil, err
		}
		err = s.cartRepo.Save(cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repository.ErrCartVersionConflict) {
			return nil, err
		}
		lastErr = ErrCartConflict
	}
	return nil, lastErr
}

// recomputeTotal derives the stored total from current catalog prices.
// Lines whose product row no longer exists contribute nothing but stay in
// the cart, matching how the total treats them at read time.
func (s *CartService) recomputeTotal(cart *models.Cart) error {
	products, err := s.productsFor(cart)
	if err != nil {
		return err
	}
	total := models.ZeroMoney()
	for _, line := range cart.Items {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		total = total.AddMoney(product.Price.MulInt(line.Quantity))
	}
	cart.TotalPrice = total
	return nil
}

func (s *CartService) buildDetail(cart *models.Cart) (*CartDetail, error) {
	products, err := s.productsFor(cart)
	if err != nil {
		return nil, err
	}
	items := make([]CartLineDetail, 0, len(cart.Items))
	for _, line := range cart.Items {
		detail := CartLineDetail{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt,
			UnitPrice: models.ZeroMoney(),
			LineTotal: models.ZeroMoney(),
		}
		if product, ok := products[line.ProductID]; ok {
			detail.UnitPrice = product.Price
			detail.LineTotal = product.Price.MulInt(line.Quantity)
			detail.Product = product
		}
		items = append(items, detail)
	}
	return &CartDetail{
		CartID:     cart.ID,
		Items:      items,
		TotalPrice: cart.TotalPrice,
	}, nil
}

func (s *CartService) productsFor(cart *models.Cart) (map[uint]*models.Product, error) {
	ids := make([]uint, 0, len(cart.Items))
	for _, line := range cart.Items {
		ids = append(ids, line.ProductID)
	}
	list, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uint]*models.Product, len(list))
	for i := range list {
		products[list[i].ID] = &list[i]
	}
	return products, nil
}
