package service

import (
	"strings"

	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/logger"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/queue"
	"github.com/shopmitra/internal/repository"
)

// ProductService owns the catalog: public browsing plus admin management.
type ProductService struct {
	productRepo repository.ProductRepository
	queueClient *queue.Client
}

// NewProductService creates the product service.
func NewProductService(productRepo repository.ProductRepository, queueClient *queue.Client) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		queueClient: queueClient,
	}
}

// ProductCreateInput carries the admin create form. All fields are required
// and at least one image must be attached.
type ProductCreateInput struct {
	Name        string
	Description string
	Category    string
	Brand       string
	Price       models.Money
	Stock       int
	Images      []string
}

// ProductUpdateInput carries a partial admin update. Nil fields keep their
// stored value.
type ProductUpdateInput struct {
	Name        *string
	Description *string
	Category    *string
	Brand       *string
	Price       *models.Money
	Stock       *int
	Images      []string
}

// List returns a catalog page.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get fetches one product.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create adds a product to the catalog.
func (s *ProductService) Create(input ProductCreateInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Category) == "" ||
		strings.TrimSpace(input.Brand) == "" {
		return nil, ErrProductInvalid
	}
	if input.Price.IsNegative() || input.Stock < constants.StockDiscontinued {
		return nil, ErrProductInvalid
	}
	if len(input.Images) == 0 {
		return nil, ErrProductImageMissing
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Brand:       strings.TrimSpace(input.Brand),
		Price:       input.Price,
		Stock:       input.Stock,
		Images:      models.StringArray(input.Images),
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial product update. A price change schedules a cart
// total refresh so stored aggregates converge without waiting for the next
// cart mutation.
func (s *ProductService) Update(id uint, input ProductUpdateInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	priceChanged := false
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Brand != nil && strings.TrimSpace(*input.Brand) != "" {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrProductInvalid
		}
		priceChanged = !product.Price.Equal(input.Price.Decimal)
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < constants.StockDiscontinued {
			return nil, ErrProductInvalid
		}
		product.Stock = *input.Stock
	}
	if len(input.Images) > 0 {
		product.Images = models.StringArray(input.Images)
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	if priceChanged {
		s.scheduleCartRefresh(product.ID)
	}
	return product, nil
}

// SoftDelete retires a product by setting its stock to the discontinued
// sentinel. The row stays so existing cart lines keep pricing against it.
func (s *ProductService) SoftDelete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	product.Stock = constants.StockDiscontinued
	return s.productRepo.Update(product)
}

func (s *ProductService) scheduleCartRefresh(productID uint) {
	err := s.queueClient.EnqueueCartPriceRefresh(queue.CartPriceRefreshPayload{ProductID: productID})
	if err != nil {
		logger.Warnw("cart_price_refresh_enqueue_failed", "product_id", productID, "error", err)
	}
}
