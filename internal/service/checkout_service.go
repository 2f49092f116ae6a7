package service

import (
	"strings"

	"github.com/shopmitra/internal/config"
	"github.com/shopmitra/internal/logger"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/repository"
)

// CheckoutQuote is the buy-now pricing breakdown. It commits nothing: no
// order is created and no stock is reserved.
type CheckoutQuote struct {
	Cart            *CartDetail  `json:"cart"`
	TotalPrice      models.Money `json:"total_price"`
	ShippingCharges models.Money `json:"shipping_charges"`
	BillingPrice    models.Money `json:"billing_price"`
}

// CheckoutService prices a cart for checkout. Shipping is free for the
// configured city, compared case-insensitively, and a flat charge elsewhere.
type CheckoutService struct {
	carts      *CartService
	userRepo   repository.UserRepository
	freeCity   string
	flatCharge models.Money
}

// NewCheckoutService creates the checkout service from the shipping config.
func NewCheckoutService(carts *CartService, userRepo repository.UserRepository, cfg config.ShippingConfig) *CheckoutService {
	flatCharge, err := models.NewMoneyFromString(strings.TrimSpace(cfg.FlatCharge))
	if err != nil {
		logger.Warnw("shipping_flat_charge_invalid", "value", cfg.FlatCharge, "error", err)
		flatCharge, _ = models.NewMoneyFromString("50")
	}
	return &CheckoutService{
		carts:      carts,
		userRepo:   userRepo,
		freeCity:   strings.TrimSpace(cfg.FreeCity),
		flatCharge: flatCharge,
	}
}

// Quote prices the user's current cart. The total is recomputed from the
// catalog in memory; the stored cart row is left untouched.
func (s *CheckoutService) Quote(userID uint) (*CheckoutQuote, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	cart, err := s.carts.Snapshot(userID)
	if err != nil {
		return nil, err
	}

	shipping := s.shippingFor(user.Address.City)
	return &CheckoutQuote{
		Cart:            cart,
		TotalPrice:      cart.TotalPrice,
		ShippingCharges: shipping,
		BillingPrice:    cart.TotalPrice.AddMoney(shipping),
	}, nil
}

func (s *CheckoutService) shippingFor(city string) models.Money {
	if s.freeCity != "" && strings.EqualFold(strings.TrimSpace(city), s.freeCity) {
		return models.ZeroMoney()
	}
	return s.flatCharge
}
