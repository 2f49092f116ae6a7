package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopmitra/internal/config"
	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	auth     *AuthService
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Cart{}, &models.UserLoginLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	loginLogRepo := repository.NewUserLoginLogRepository(db)
	return &authTestEnv{
		db:       db,
		userRepo: userRepo,
		cartRepo: cartRepo,
		auth:     NewAuthService(cfg, userRepo, cartRepo, loginLogRepo),
	}
}

func registerInput(suffix string) RegisterInput {
	return RegisterInput{
		FirstName: "Ravi",
		LastName:  "Shinde",
		Email:     fmt.Sprintf("ravi_%s@example.com", suffix),
		Password:  "sturdy-pass1",
		Phone:     fmt.Sprintf("91000%s", suffix),
		Address: models.Address{
			Street:  "Station Road",
			City:    "Baramati",
			State:   "MH",
			Pincode: "413102",
		},
	}
}

func TestRegisterCreatesCartBeforeUser(t *testing.T) {
	env := newAuthTestEnv(t)

	user, token, _, err := env.auth.Register(registerInput("10001"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a signed token")
	}
	if user.Role != constants.RoleCustomer {
		t.Fatalf("expected role customer, got %s", user.Role)
	}
	if user.CartID == 0 {
		t.Fatalf("expected user to reference a cart")
	}

	cart, err := env.cartRepo.GetByID(user.CartID)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if cart == nil {
		t.Fatalf("expected cart row for new user")
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
	}
}

func TestRegisterRejectsMissingFieldsAndDuplicates(t *testing.T) {
	env := newAuthTestEnv(t)

	incomplete := registerInput("10002")
	incomplete.Address.City = ""
	if _, _, _, err := env.auth.Register(incomplete); !errors.Is(err, ErrFieldsRequired) {
		t.Fatalf("expected ErrFieldsRequired, got %v", err)
	}

	first := registerInput("10003")
	if _, _, _, err := env.auth.Register(first); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	dupEmail := registerInput("10004")
	dupEmail.Email = first.Email
	if _, _, _, err := env.auth.Register(dupEmail); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	dupPhone := registerInput("10005")
	dupPhone.Phone = first.Phone
	if _, _, _, err := env.auth.Register(dupPhone); !errors.Is(err, ErrPhoneExists) {
		t.Fatalf("expected ErrPhoneExists, got %v", err)
	}

	weak := registerInput("10006")
	weak.Password = "short"
	if _, _, _, err := env.auth.Register(weak); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLoginByEmailOrPhone(t *testing.T) {
	env := newAuthTestEnv(t)
	input := registerInput("10007")
	if _, _, _, err := env.auth.Register(input); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := env.auth.Login(input.Email, input.Password); err != nil {
		t.Fatalf("login by email failed: %v", err)
	}
	if _, _, _, err := env.auth.Login(input.Phone, input.Password); err != nil {
		t.Fatalf("login by phone failed: %v", err)
	}
	if _, _, _, err := env.auth.Login(input.Email, "wrong-pass9"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := env.auth.Login("nobody@example.com", input.Password); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminLoginRequiresAdminRole(t *testing.T) {
	env := newAuthTestEnv(t)
	input := registerInput("10008")
	customer, _, _, err := env.auth.Register(input)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := env.auth.AdminLogin(input.Email, input.Password); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound for customer email, got %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := &models.User{
		FirstName:    "Meera",
		LastName:     "Kulkarni",
		Email:        "admin@example.com",
		Phone:        "9876501234",
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
		CartID:       customer.CartID,
		Status:       constants.UserStatusActive,
	}
	if err := env.userRepo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	got, token, _, err := env.auth.AdminLogin("Admin@Example.com", "admin-pass1")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if token == "" || got.Role != constants.RoleAdmin {
		t.Fatalf("expected admin token, got role %s", got.Role)
	}
}

func TestLogoutInvalidatesIssuedTokens(t *testing.T) {
	env := newAuthTestEnv(t)
	input := registerInput("10009")
	user, token, _, err := env.auth.Register(input)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	claims, err := env.auth.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %d in claims, got %d", user.ID, claims.UserID)
	}

	if err := env.auth.Logout(user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	refreshed, err := env.auth.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if refreshed.TokenVersion != claims.TokenVersion+1 {
		t.Fatalf("expected token version bump to %d, got %d", claims.TokenVersion+1, refreshed.TokenVersion)
	}
	if refreshed.TokenInvalidBefore == nil {
		t.Fatalf("expected token invalid watermark to be set")
	}
}

func TestDisabledUserCannotLogin(t *testing.T) {
	env := newAuthTestEnv(t)
	input := registerInput("10010")
	user, _, _, err := env.auth.Register(input)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user.Status = constants.UserStatusDisabled
	if err := env.userRepo.Update(user); err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := env.auth.Login(input.Email, input.Password); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}
