package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/queue"
	"github.com/shopmitra/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductService(t *testing.T) (*ProductService, repository.ProductRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:product_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	repo := repository.NewProductRepository(db)
	return NewProductService(repo, queueClient), repo
}

func validCreateInput(name string) ProductCreateInput {
	return ProductCreateInput{
		Name:        name,
		Description: "a test product",
		Category:    "grocery",
		Brand:       "shopmitra",
		Price:       models.NewMoneyFromDecimal(decimal.RequireFromString("99.99")),
		Stock:       12,
		Images:      []string{"/uploads/product/a.png"},
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newProductService(t)

	missing := validCreateInput("")
	if _, err := svc.Create(missing); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("expected ErrProductInvalid for empty name, got %v", err)
	}

	noImages := validCreateInput("Rice")
	noImages.Images = nil
	if _, err := svc.Create(noImages); !errors.Is(err, ErrProductImageMissing) {
		t.Fatalf("expected ErrProductImageMissing, got %v", err)
	}

	negative := validCreateInput("Rice")
	negative.Price = models.NewMoneyFromDecimal(decimal.RequireFromString("-1"))
	if _, err := svc.Create(negative); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("expected ErrProductInvalid for negative price, got %v", err)
	}

	product, err := svc.Create(validCreateInput("Rice"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.ID == 0 {
		t.Fatalf("expected persisted product id")
	}
	if product.Availability() != models.ProductAvailable {
		t.Fatalf("expected available product, got %s", product.Availability())
	}
}

func TestUpdateProductPartialFields(t *testing.T) {
	svc, _ := newProductService(t)
	product, err := svc.Create(validCreateInput("Tea"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newName := "Green Tea"
	newPrice := models.NewMoneyFromDecimal(decimal.RequireFromString("120"))
	updated, err := svc.Update(product.ID, ProductUpdateInput{
		Name:  &newName,
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Green Tea" {
		t.Fatalf("expected renamed product, got %s", updated.Name)
	}
	if !updated.Price.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected price 120, got %s", updated.Price.String())
	}
	if updated.Description != product.Description {
		t.Fatalf("expected untouched description, got %s", updated.Description)
	}
	if updated.Stock != product.Stock {
		t.Fatalf("expected untouched stock, got %d", updated.Stock)
	}

	badStock := -5
	if _, err := svc.Update(product.ID, ProductUpdateInput{Stock: &badStock}); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("expected ErrProductInvalid for stock below sentinel, got %v", err)
	}
	if _, err := svc.Update(99999, ProductUpdateInput{Name: &newName}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestSoftDeleteDiscontinuesProduct(t *testing.T) {
	svc, repo := newProductService(t)
	product, err := svc.Create(validCreateInput("Soap"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.SoftDelete(product.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	stored, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected product row to survive soft delete")
	}
	if stored.Availability() != models.ProductDiscontinued {
		t.Fatalf("expected discontinued, got %s", stored.Availability())
	}

	// Discontinued rows are excluded from sellable listings.
	list, total, err := repo.List(repository.ProductListFilter{Page: 1, PageSize: 10, OnlySellable: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Fatalf("expected no sellable products, got %d", total)
	}
}
