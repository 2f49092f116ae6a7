package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopmitra/internal/cache"
	"github.com/shopmitra/internal/config"
	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/logger"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token lifecycle for both
// customers and admins. Admins are users with role=admin.
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	cartRepo     repository.CartRepository
	loginLogRepo repository.UserLoginLogRepository
}

// NewAuthService creates the auth service.
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, cartRepo repository.CartRepository, loginLogRepo repository.UserLoginLogRepository) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		cartRepo:     cartRepo,
		loginLogRepo: loginLogRepo,
	}
}

// JWTClaims are the token claims. TokenVersion must match the user row at
// verification time, which is how logout kills issued tokens.
type JWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput carries the registration form. Every field is required.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   models.Address
}

// LoginAttempt describes one login attempt for the audit log.
type LoginAttempt struct {
	UserID     uint
	Identifier string
	Status     string
	FailReason string
	ClientIP   string
	UserAgent  string
	RequestID  string
}

// GenerateJWT issues a signed token for the user.
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := JWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT validates and parses a token.
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Register creates a user with a fresh empty cart. The cart is created first
// so the user row always points at an existing cart.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Password) == "" ||
		strings.TrimSpace(input.Phone) == "" ||
		strings.TrimSpace(input.Address.City) == "" {
		return nil, "", time.Time{}, ErrFieldsRequired
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	phone := strings.TrimSpace(input.Phone)

	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	if exist, err := s.userRepo.GetByEmail(email); err != nil {
		return nil, "", time.Time{}, err
	} else if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}
	if exist, err := s.userRepo.GetByPhone(phone); err != nil {
		return nil, "", time.Time{}, err
	} else if exist != nil {
		return nil, "", time.Time{}, ErrPhoneExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	cart := &models.Cart{Items: models.CartLines{}, TotalPrice: models.ZeroMoney()}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashedPassword),
		Address:      input.Address,
		Role:         constants.RoleCustomer,
		CartID:       cart.ID,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login authenticates by email or phone: an identifier containing "@" is
// looked up as an email, anything else as a phone number.
func (s *AuthService) Login(identifier, password string) (*models.User, string, time.Time, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" || password == "" {
		return nil, "", time.Time{}, ErrFieldsRequired
	}

	var user *models.User
	var err error
	if strings.Contains(trimmed, "@") {
		user, err = s.userRepo.GetByEmail(strings.ToLower(trimmed))
	} else {
		user, err = s.userRepo.GetByPhone(trimmed)
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrUserNotFound
	}
	return s.finishLogin(user, password)
}

// AdminLogin authenticates an admin by email.
func (s *AuthService) AdminLogin(email, password string) (*models.User, string, time.Time, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" || password == "" {
		return nil, "", time.Time{}, ErrFieldsRequired
	}
	user, err := s.userRepo.GetAdminByEmail(trimmed)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrAdminNotFound
	}
	return s.finishLogin(user, password)
}

func (s *AuthService) finishLogin(user *models.User, password string) (*models.User, string, time.Time, error) {
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Logout bumps the token version so every issued token stops verifying.
func (s *AuthService) Logout(userID uint) error {
	if userID == 0 {
		return ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := time.Now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// GetUserByID fetches a user.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(id)
}

// RecordLoginAttempt writes a login audit entry. Failures are logged, never
// surfaced, so auditing cannot break the login path.
func (s *AuthService) RecordLoginAttempt(attempt LoginAttempt) {
	if s.loginLogRepo == nil {
		return
	}
	entry := &models.UserLoginLog{
		UserID:     attempt.UserID,
		Identifier: attempt.Identifier,
		Status:     attempt.Status,
		FailReason: attempt.FailReason,
		ClientIP:   attempt.ClientIP,
		UserAgent:  attempt.UserAgent,
		RequestID:  attempt.RequestID,
		CreatedAt:  time.Now(),
	}
	if err := s.loginLogRepo.Create(entry); err != nil {
		logger.Warnw("login_log_write_failed", "error", err, "identifier", attempt.Identifier)
	}
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
