package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopmitra/internal/config"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/provider"
	"github.com/shopmitra/internal/repository"
	"github.com/shopmitra/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupCartHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:cart_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Cart{}, &models.Product{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartService := service.NewCartService(cartRepo, productRepo, userRepo, 3)
	checkoutService := service.NewCheckoutService(cartService, userRepo, config.ShippingConfig{
		FreeCity:   "Baramati",
		FlatCharge: "50",
	})

	c := &provider.Container{
		Config:          &config.Config{},
		UserRepo:        userRepo,
		ProductRepo:     productRepo,
		CartRepo:        cartRepo,
		CartService:     cartService,
		CheckoutService: checkoutService,
	}
	return New(c), db
}

func createCartTestUser(t *testing.T, db *gorm.DB, city string) *models.User {
	t.Helper()
	cart := models.Cart{Items: models.CartLines{}, TotalPrice: models.ZeroMoney()}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	user := models.User{
		FirstName:    "Asha",
		LastName:     "Patil",
		Email:        fmt.Sprintf("asha_%d@example.com", time.Now().UnixNano()),
		Phone:        fmt.Sprintf("98%d", time.Now().UnixNano()%100000000),
		PasswordHash: "x",
		Address:      models.Address{City: city},
		Role:         "customer",
		CartID:       cart.ID,
		Status:       "active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func createCartTestProduct(t *testing.T, db *gorm.DB, price int64, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:        fmt.Sprintf("Product %d", time.Now().UnixNano()),
		Description: "handler fixture",
		Category:    "electronics",
		Brand:       "Acme",
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:       stock,
		Images:      models.StringArray([]string{"/uploads/product/x.png"}),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func newAuthedJSONContext(t *testing.T, userID uint, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user_id", userID)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope failed: %v (body %s)", err, w.Body.String())
	}
	return env
}

func TestAddToCartMergesLines(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	user := createCartTestUser(t, db, "Pune")
	product := createCartTestProduct(t, db, 100, 10)

	body := fmt.Sprintf(`{"product_id":%d,"quantity":2}`, product.ID)
	c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first add want 200 got %d body %s", w.Code, w.Body.String())
	}

	body = fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	c, w = newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("second add want 200 got %d body %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	var cart CartResponse
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("repeat add should merge into one line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("merged quantity want 3 got %d", cart.Items[0].Quantity)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("total want 300.00 got %s", cart.TotalPrice)
	}
}

func TestAddToCartOutOfStock(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	user := createCartTestUser(t, db, "Pune")
	product := createCartTestProduct(t, db, 100, 0)

	body := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("out-of-stock add want 403 got %d body %s", w.Code, w.Body.String())
	}
}

func TestAddToCartDiscontinued(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	user := createCartTestUser(t, db, "Pune")
	product := createCartTestProduct(t, db, 100, -1)

	body := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("discontinued add want 403 got %d body %s", w.Code, w.Body.String())
	}
}

func TestUpdateCartQuantityDecreaseFloor(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	user := createCartTestUser(t, db, "Pune")
	product := createCartTestProduct(t, db, 100, 10)

	body := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("add want 200 got %d", w.Code)
	}

	body = fmt.Sprintf(`{"product_id":%d,"action":"decrease"}`, product.ID)
	c, w = newAuthedJSONContext(t, user.ID, http.MethodPatch, "/api/v1/update-cart-quantity", body)
	h.UpdateCartQuantity(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("decrease at quantity 1 want 400 got %d body %s", w.Code, w.Body.String())
	}
}

func TestUpdateCartQuantityUnknownAction(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	user := createCartTestUser(t, db, "Pune")
	product := createCartTestProduct(t, db, 100, 10)

	body := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("add want 200 got %d", w.Code)
	}

	body = fmt.Sprintf(`{"product_id":%d,"action":"remove"}`, product.ID)
	c, w = newAuthedJSONContext(t, user.ID, http.MethodPatch, "/api/v1/update-cart-quantity", body)
	h.UpdateCartQuantity(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action want 400 got %d body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Msg != "Invalid action" {
		t.Fatalf("unknown action msg want %q got %q", "Invalid action", env.Msg)
	}
}

func TestRemoveFromCartMissingLine(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	user := createCartTestUser(t, db, "Pune")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/delete-product-from-cart/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Set("user_id", user.ID)
	h.RemoveFromCart(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("remove missing line want 404 got %d body %s", w.Code, w.Body.String())
	}
}

func TestGetCartRendersAddedAtInDisplayTimezone(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	h.Config.Cart.DisplayTimezone = "Asia/Kolkata"
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("skip timezone rendering test: tzdata unavailable")
	}

	user := createCartTestUser(t, db, "Pune")
	product := createCartTestProduct(t, db, 100, 10)

	body := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("add want 200 got %d", w.Code)
	}

	c, w = newAuthedJSONContext(t, user.ID, http.MethodGet, "/api/v1/cart", "")
	h.GetCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart want 200 got %d body %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	var cart CartResponse
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	parsed, err := time.Parse(time.RFC3339, cart.Items[0].AddedAt)
	if err != nil {
		t.Fatalf("added_at should be RFC3339, got %q: %v", cart.Items[0].AddedAt, err)
	}

	_, gotOffset := parsed.Zone()
	_, wantOffset := parsed.In(loc).Zone()
	if gotOffset != wantOffset {
		t.Fatalf("added_at offset want %d got %d (%q)", wantOffset, gotOffset, cart.Items[0].AddedAt)
	}

	stored, err := repository.NewCartRepository(db).GetByID(user.CartID)
	if err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if diff := parsed.Sub(stored.Items[0].AddedAt); diff < -time.Second || diff > time.Second {
		t.Fatalf("rendered added_at should be the stored instant, stored %v rendered %v", stored.Items[0].AddedAt, parsed)
	}
}

func TestGetCartAddedAtUnknownTimezoneFallsBackToUTC(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	h.Config.Cart.DisplayTimezone = "Mars/Olympus"

	user := createCartTestUser(t, db, "Pune")
	product := createCartTestProduct(t, db, 100, 10)

	body := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
	h.AddToCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("add want 200 got %d", w.Code)
	}

	c, w = newAuthedJSONContext(t, user.ID, http.MethodGet, "/api/v1/cart", "")
	h.GetCart(c)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart want 200 got %d body %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	var cart CartResponse
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	parsed, err := time.Parse(time.RFC3339, cart.Items[0].AddedAt)
	if err != nil {
		t.Fatalf("added_at should be RFC3339, got %q: %v", cart.Items[0].AddedAt, err)
	}
	if _, offset := parsed.Zone(); offset != 0 {
		t.Fatalf("unknown timezone should render UTC, got offset %d (%q)", offset, cart.Items[0].AddedAt)
	}
}

func TestBuyNowShipping(t *testing.T) {
	h, db := setupCartHandlerTest(t)
	product := createCartTestProduct(t, db, 100, 10)

	cases := []struct {
		city     string
		shipping string
		billing  string
	}{
		{city: "baramati", shipping: "0.00", billing: "200.00"},
		{city: "Pune", shipping: "50.00", billing: "250.00"},
	}
	for _, tc := range cases {
		user := createCartTestUser(t, db, tc.city)

		body := fmt.Sprintf(`{"product_id":%d,"quantity":2}`, product.ID)
		c, w := newAuthedJSONContext(t, user.ID, http.MethodPost, "/api/v1/add-to-cart", body)
		h.AddToCart(c)
		if w.Code != http.StatusOK {
			t.Fatalf("city %s: add want 200 got %d", tc.city, w.Code)
		}

		c, w = newAuthedJSONContext(t, user.ID, http.MethodGet, "/api/v1/buy-now", "")
		h.BuyNow(c)
		if w.Code != http.StatusOK {
			t.Fatalf("city %s: buy-now want 200 got %d body %s", tc.city, w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)
		var quote struct {
			TotalPrice      string `json:"total_price"`
			ShippingCharges string `json:"shipping_charges"`
			BillingPrice    string `json:"billing_price"`
		}
		if err := json.Unmarshal(env.Data, &quote); err != nil {
			t.Fatalf("city %s: decode quote failed: %v", tc.city, err)
		}
		if quote.ShippingCharges != tc.shipping {
			t.Fatalf("city %s: shipping want %s got %s", tc.city, tc.shipping, quote.ShippingCharges)
		}
		if quote.BillingPrice != tc.billing {
			t.Fatalf("city %s: billing want %s got %s", tc.city, tc.billing, quote.BillingPrice)
		}
	}
}
