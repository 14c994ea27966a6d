// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liebemama/marketplace-backend/internal/config"
	"github.com/liebemama/marketplace-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	switch cfg.LogLevel {
	case "silent":
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	case "info":
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	default:
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Notification{},
		&models.AdminSettings{},
		&models.ErrorLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_merchant ON products(merchant_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_approved ON products(is_approved)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_product_images_product ON product_images(product_id)",

		// Mailbox queries filter on role and visibility, then match the
		// broadcast-or-targeted user column
		"CREATE INDEX IF NOT EXISTS idx_notifications_mailbox ON notifications(role, is_visible, user_id)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_product ON notifications(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at DESC)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_admin_settings_category ON admin_settings(category, key)",
		"CREATE INDEX IF NOT EXISTS idx_error_logs_created ON error_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_error_logs_endpoint ON error_logs(endpoint)",

		// Full-text search index for the public catalog
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@liebemama.com",
			Role:     models.RoleAdmin,
			Status:   models.UserStatusActive,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Create default platform settings
	defaultSettings := []models.AdminSettings{
		{
			Category:    "general",
			Key:         "platform_name",
			Value:       models.JSONB{"value": "LiebeMama"},
			DataType:    "string",
			Description: "Platform name displayed to users",
		},
		{
			Category:    "general",
			Key:         "default_locale",
			Value:       models.JSONB{"value": "en"},
			DataType:    "string",
			Description: "Default language for storefront pages",
		},
		{
			Category:    "catalog",
			Key:         "products_per_page",
			Value:       models.JSONB{"value": 20},
			DataType:    "integer",
			Description: "Default page size for catalog listings",
		},
		{
			Category:    "catalog",
			Key:         "auto_approve_products",
			Value:       models.JSONB{"value": false},
			DataType:    "boolean",
			Description: "Skip the admin approval step for merchant products",
		},
		{
			Category:    "uploads",
			Key:         "max_images_per_product",
			Value:       models.JSONB{"value": 6},
			DataType:    "integer",
			Description: "Maximum number of images a product may carry",
		},
	}

	for _, setting := range defaultSettings {
		var count int64
		db.Model(&models.AdminSettings{}).
			Where("category = ? AND key = ?", setting.Category, setting.Key).
			Count(&count)

		if count == 0 {
			if err := db.Create(&setting).Error; err != nil {
				return fmt.Errorf("failed to create setting %s.%s: %w", setting.Category, setting.Key, err)
			}
		}
	}

	log.Println("Initial data seeded successfully")
	return nil
}
