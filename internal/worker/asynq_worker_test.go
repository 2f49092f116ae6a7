package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/provider"
	"github.com/shopmitra/internal/queue"
	"github.com/shopmitra/internal/repository"
	"github.com/shopmitra/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newWorkerTestConsumer(t *testing.T) (*Consumer, repository.CartRepository, repository.ProductRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Cart{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	container := &provider.Container{
		UserRepo:    userRepo,
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		CartService: service.NewCartService(cartRepo, productRepo, userRepo, 3),
	}
	return NewConsumer(container), cartRepo, productRepo
}

func TestHandleCartPriceRefreshRepricesStoredTotals(t *testing.T) {
	consumer, cartRepo, productRepo := newWorkerTestConsumer(t)

	product := &models.Product{
		Name:        "Rice",
		Description: "d",
		Category:    "grocery",
		Brand:       "b",
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Stock:       10,
		Images:      models.StringArray{"/uploads/product/a.png"},
	}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	cart := &models.Cart{
		Items: models.CartLines{
			{ProductID: product.ID, Quantity: 3, AddedAt: time.Now().UTC()},
		},
		TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(300)),
	}
	if err := cartRepo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	product.Price = models.NewMoneyFromDecimal(decimal.NewFromInt(80))
	if err := productRepo.Update(product); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	task, err := queue.NewCartPriceRefreshTask(queue.CartPriceRefreshPayload{ProductID: product.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartPriceRefresh(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	stored, err := cartRepo.GetByID(cart.ID)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if !stored.TotalPrice.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("expected total 240.00, got %s", stored.TotalPrice.String())
	}
}

func TestHandleCartPriceRefreshEmptyDatabase(t *testing.T) {
	consumer, _, _ := newWorkerTestConsumer(t)

	task, err := queue.NewCartPriceRefreshTask(queue.CartPriceRefreshPayload{ProductID: 1})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartPriceRefresh(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
}
