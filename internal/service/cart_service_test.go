package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cartTestEnv struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	carts       *CartService
}

func newCartTestEnv(t *testing.T) *cartTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	return &cartTestEnv{
		db:          db,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		carts:       NewCartService(cartRepo, productRepo, userRepo, 3),
	}
}

func (e *cartTestEnv) createUser(t *testing.T, city string) *models.User {
	t.Helper()

	cart := &models.Cart{Items: models.CartLines{}, TotalPrice: models.ZeroMoney()}
	if err := e.cartRepo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	user := &models.User{
		FirstName:    "Asha",
		LastName:     "Pawar",
		Email:        fmt.Sprintf("asha_%d@example.com", cart.ID),
		Phone:        fmt.Sprintf("98%08d", cart.ID),
		PasswordHash: "x",
		Address:      models.Address{Street: "MG Road", City: city, State: "MH", Pincode: "413102"},
		Role:         constants.RoleCustomer,
		CartID:       cart.ID,
		Status:       constants.UserStatusActive,
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *cartTestEnv) createProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()

	amount, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product := &models.Product{
		Name:        name,
		Description: "test product",
		Category:    "grocery",
		Brand:       "shopmitra",
		Price:       models.NewMoneyFromDecimal(amount),
		Stock:       stock,
		Images:      models.StringArray{"/uploads/product/test.png"},
	}
	if err := e.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func assertMoney(t *testing.T, got models.Money, want string) {
	t.Helper()
	expected := decimal.RequireFromString(want)
	if !got.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected.StringFixed(2), got.String())
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Basmati Rice", "120.50", 10)

	if _, err := env.carts.AddItem(user.ID, product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	detail, err := env.carts.AddItem(user.ID, product.ID, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(detail.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(detail.Items))
	}
	if detail.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", detail.Items[0].Quantity)
	}
	assertMoney(t, detail.TotalPrice, "602.50")
}

func TestAddItemMergeRefreshesAddedAt(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Toor Dal", "90.00", 10)

	first, err := env.carts.AddItem(user.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	firstAdded := first.Items[0].AddedAt

	time.Sleep(20 * time.Millisecond)

	second, err := env.carts.AddItem(user.ID, product.ID, 2)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if !second.Items[0].AddedAt.After(firstAdded) {
		t.Fatalf("merge should refresh added_at, first %v second %v", firstAdded, second.Items[0].AddedAt)
	}

	stored, err := env.cartRepo.GetByID(user.CartID)
	if err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if !stored.Items[0].AddedAt.After(firstAdded) {
		t.Fatalf("refreshed added_at should persist, got %v", stored.Items[0].AddedAt)
	}
}

func TestAddItemRefusesNonPositiveQuantity(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Tea", "40", 5)

	if _, err := env.carts.AddItem(user.ID, product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := env.carts.AddItem(user.ID, product.ID, -2); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestAddItemStockStates(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	outOfStock := env.createProduct(t, "Sugar", "45", 0)
	discontinued := env.createProduct(t, "Old Soap", "25", constants.StockDiscontinued)

	if _, err := env.carts.AddItem(user.ID, outOfStock.ID, 1); !errors.Is(err, ErrProductOutOfStock) {
		t.Fatalf("expected ErrProductOutOfStock, got %v", err)
	}
	if _, err := env.carts.AddItem(user.ID, discontinued.ID, 1); !errors.Is(err, ErrProductDiscontinued) {
		t.Fatalf("expected ErrProductDiscontinued, got %v", err)
	}
	if _, err := env.carts.AddItem(user.ID, 99999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	detail, err := env.carts.GetCart(user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(detail.Items) != 0 {
		t.Fatalf("expected cart untouched after rejected adds, got %d lines", len(detail.Items))
	}
}

func TestRemoveItemAbsentLine(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Salt", "20", 8)

	if _, err := env.carts.RemoveItem(user.ID, product.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}

	if _, err := env.carts.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	detail, err := env.carts.RemoveItem(user.ID, product.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(detail.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(detail.Items))
	}
	assertMoney(t, detail.TotalPrice, "0")
}

func TestAdjustQuantityFloor(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Jaggery", "60", 4)

	if _, err := env.carts.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	detail, err := env.carts.AdjustQuantity(user.ID, product.ID, constants.CartActionIncrease)
	if err != nil {
		t.Fatalf("increase failed: %v", err)
	}
	if detail.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", detail.Items[0].Quantity)
	}

	if _, err := env.carts.AdjustQuantity(user.ID, product.ID, constants.CartActionDecrease); err != nil {
		t.Fatalf("decrease failed: %v", err)
	}
	if _, err := env.carts.AdjustQuantity(user.ID, product.ID, constants.CartActionDecrease); !errors.Is(err, ErrQuantityFloor) {
		t.Fatalf("expected ErrQuantityFloor, got %v", err)
	}
	if _, err := env.carts.AdjustQuantity(user.ID, product.ID, "double"); !errors.Is(err, ErrInvalidCartAction) {
		t.Fatalf("expected ErrInvalidCartAction, got %v", err)
	}
	if _, err := env.carts.AdjustQuantity(user.ID, 99999, constants.CartActionIncrease); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestGetCartRepricesAfterCatalogChange(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Ghee", "500", 6)

	if _, err := env.carts.AddItem(user.ID, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	product.Price = models.NewMoneyFromDecimal(decimal.RequireFromString("450"))
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	detail, err := env.carts.GetCart(user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	assertMoney(t, detail.TotalPrice, "900")

	// The refreshed total is persisted, not just rendered.
	stored, err := env.cartRepo.GetByID(user.CartID)
	if err != nil {
		t.Fatalf("load cart row failed: %v", err)
	}
	assertMoney(t, stored.TotalPrice, "900")
}

func TestMutateRetriesOnVersionConflict(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Oil", "180", 9)

	if _, err := env.carts.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// A stale copy loses the compare-and-swap to a concurrent save.
	stale, err := env.cartRepo.GetByID(user.CartID)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if _, err := env.carts.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("concurrent add failed: %v", err)
	}
	if err := env.cartRepo.Save(stale); !errors.Is(err, repository.ErrCartVersionConflict) {
		t.Fatalf("expected ErrCartVersionConflict, got %v", err)
	}

	// The service retries with a fresh copy and still lands the mutation.
	detail, err := env.carts.AddItem(user.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("add after conflict failed: %v", err)
	}
	if detail.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", detail.Items[0].Quantity)
	}
}

func TestRefreshTotalRecomputesStoredAggregate(t *testing.T) {
	env := newCartTestEnv(t)
	user := env.createUser(t, "Pune")
	product := env.createProduct(t, "Atta", "55", 20)

	if _, err := env.carts.AddItem(user.ID, product.ID, 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	product.Price = models.NewMoneyFromDecimal(decimal.RequireFromString("60"))
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	if err := env.carts.RefreshTotal(user.CartID); err != nil {
		t.Fatalf("refresh total failed: %v", err)
	}
	stored, err := env.cartRepo.GetByID(user.CartID)
	if err != nil {
		t.Fatalf("load cart row failed: %v", err)
	}
	assertMoney(t, stored.TotalPrice, "240")
}
