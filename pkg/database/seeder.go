package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Priyanshusingh0818/GORUS/config"
	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedAdmin creates the configured admin account unless it already exists.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		slog.Info("No admin credentials provided. Skipping admin user creation.")
		return nil
	}
	_, created, err := EnsureAdmin(db, cfg.Email, cfg.Password, "Admin")
	if err != nil {
		return err
	}
	if created {
		slog.Info("Admin user created", "email", cfg.Email)
	} else {
		slog.Info("Admin user already exists", "email", cfg.Email)
	}
	return nil
}

// EnsureAdmin returns the user with this email, creating it as an admin when
// absent. An existing account is left untouched.
func EnsureAdmin(db *gorm.DB, email, password, name string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup admin: %w", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}
	user = models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
	}
	if name != "" {
		user.Name = &name
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return &user, true, nil
}

// SeedProducts inserts the starter catalog when the products table is empty.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}
	products := sampleProducts()
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	slog.Info("Products seeded successfully", "count", len(products))
	return nil
}

func sampleProducts() []models.Product {
	tag := func(s string) *string { return &s }
	return []models.Product{
		{Name: "Pure Desi Ghee", Description: "100% pure desi cow ghee made from traditional bilona method. Rich in vitamins and nutrients.", Price: decimal.NewFromInt(1800), Unit: "kg", Image: "/images/ghee.jpg", Available: true, Tag: tag("Premium"), Stock: 50},
		{Name: "Sarso Tel (Mustard Oil)", Description: "Cold-pressed mustard oil, rich in nutrients. Perfect for cooking and health benefits.", Price: decimal.NewFromInt(210), Unit: "litre", Image: "/images/sarso-tel.jpg", Available: true, Tag: tag("Fresh"), Stock: 100},
		{Name: "Fresh Cow Milk", Description: "Farm-fresh pure cow milk delivered daily. No additives, no preservatives.", Price: decimal.NewFromInt(60), Unit: "litre", Image: "/images/milk.jpg", Available: true, Tag: tag("Daily Fresh"), Stock: 200},
		{Name: "Paneer", Description: "Fresh homemade paneer from pure cow milk.", Price: decimal.NewFromInt(320), Unit: "kg", Image: "/images/paneer.jpg", Available: true, Stock: 30},
		{Name: "Curd", Description: "Fresh thick curd made from pure cow milk.", Price: decimal.NewFromInt(55), Unit: "500ml", Image: "/images/curd.jpg", Available: true, Stock: 80},
		{Name: "Buttermilk", Description: "Refreshing buttermilk made from fresh curd.", Price: decimal.NewFromInt(20), Unit: "500ml", Image: "/images/buttermilk.jpg", Available: true, Stock: 150},
	}
}
