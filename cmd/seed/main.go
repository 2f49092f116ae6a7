package main

import (
	"fmt"

	"github.com/shopmitra/internal/config"
	"github.com/shopmitra/internal/logger"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/provider"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	products := []models.Product{
		{
			Name:        "Wireless Bluetooth Earphones",
			Description: "High quality sound, long battery life, comfortable to wear",
			Category:    "electronics",
			Brand:       "SoundCore",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(1999.00)),
			Stock:       40,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
		},
		{
			Name:        "Smart Watch",
			Description: "Health monitoring, fitness tracking, message notifications",
			Category:    "electronics",
			Brand:       "FitPulse",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(4999.00)),
			Stock:       25,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800",
			}),
		},
		{
			Name:        "Portable Power Bank",
			Description: "High capacity, fast charging, multi-device compatible",
			Category:    "accessories",
			Brand:       "VoltGo",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(1299.00)),
			Stock:       60,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800",
			}),
		},
		{
			Name:        "Multi-function Backpack",
			Description: "Large capacity, waterproof and anti-theft, USB charging port",
			Category:    "lifestyle",
			Brand:       "TrailKit",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(2499.00)),
			Stock:       15,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800",
			}),
		},
		{
			Name:        "Demo Product - Out of Stock",
			Description: "Shows the out-of-stock badge and blocked add-to-cart",
			Category:    "accessories",
			Brand:       "VoltGo",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(799.00)),
			Stock:       0,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1512499617640-c74ae3a79d37?w=800",
			}),
		},
		{
			Name:        "Demo Product - Discontinued",
			Description: "Shows the discontinued state for old cart lines",
			Category:    "lifestyle",
			Brand:       "TrailKit",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(999.00)),
			Stock:       -1,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1516321165247-4aa89a48be28?w=800",
			}),
		},
	}

	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", prod.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Name)
			}
			continue
		}
		existing.Description = prod.Description
		existing.Category = prod.Category
		existing.Brand = prod.Brand
		existing.Price = prod.Price
		existing.Stock = prod.Stock
		existing.Images = prod.Images
		if err := models.DB.Save(&existing).Error; err != nil {
			stdLog.Printf("Failed to update product %s: %v", prod.Name, err)
		} else {
			stdLog.Printf("Updated product: %s", prod.Name)
		}
	}

	adminID, err := models.InitDefaultAdmin("admin@shopmitra.local", "admin123")
	if err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// The container bootstraps the builtin roles and grants superadmin to
	// admins without explicit roles, the default admin included.
	c := provider.NewContainer(cfg)
	if adminID != 0 && c.AuthzService != nil {
		if err := c.AuthzService.EnsureSuperadmin(adminID); err != nil {
			stdLog.Printf("Failed to grant superadmin: %v", err)
		}
	}

	fmt.Println("\nSeed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 6 Products (including stock state demos)")
	fmt.Println("- Default admin admin@shopmitra.local (password admin123)")
	fmt.Println("- Builtin authz roles bootstrapped")
}
