package provider

import (
	"github.com/shopmitra/internal/authz"
	"github.com/shopmitra/internal/cache"
	"github.com/shopmitra/internal/config"
	"github.com/shopmitra/internal/logger"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/queue"
	"github.com/shopmitra/internal/repository"
	"github.com/shopmitra/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	ProductRepo      repository.ProductRepository
	CartRepo         repository.CartRepository
	UserLoginLogRepo repository.UserLoginLogRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	CaptchaService  *service.CaptchaService
	UploadService   *service.UploadService
	ProductService  *service.ProductService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.ensureAdminRoleGrants()

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.CartRepo, c.UserLoginLogRepo)
	c.UploadService = service.NewUploadService(c.Config)
	c.ProductService = service.NewProductService(c.ProductRepo, c.QueueClient)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.UserRepo, c.Config.Cart.SaveRetries)
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.UserRepo, c.Config.Shipping)
}

// ensureAdminRoleGrants gives superadmin to admin accounts that carry no
// authz roles yet, so a fresh deployment's default admin can reach every
// management route.
func (c *Container) ensureAdminRoleGrants() {
	var adminIDs []uint
	if err := models.DB.Model(&models.User{}).Where("role = ?", "admin").Pluck("id", &adminIDs).Error; err != nil {
		logger.Warnw("provider_admin_role_scan_failed", "error", err)
		return
	}
	for _, id := range adminIDs {
		roles, err := c.AuthzService.GetUserRoles(id)
		if err != nil {
			logger.Warnw("provider_admin_roles_fetch_failed", "user_id", id, "error", err)
			continue
		}
		if len(roles) > 0 {
			continue
		}
		if err := c.AuthzService.EnsureSuperadmin(id); err != nil {
			logger.Warnw("provider_superadmin_grant_failed", "user_id", id, "error", err)
		}
	}
}
