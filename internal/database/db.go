package database

import (
	"errors"
	"log"

	"markettrack-backend/internal/config"
	"markettrack-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// NotFound reports whether a query failed because the id did not resolve,
// as opposed to the store being unreachable or the statement failing.
func NotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Supplier{},
		&models.Product{},
		&models.Stock{},
		&models.PurchaseOrder{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected. Migration complete.")
}

// EnsureAdmin seeds the bootstrap SuperAdmin account if the configured
// username does not exist yet. Without it a fresh database has no way in.
func EnsureAdmin(cfg *config.Config) {
	var count int64
	DB.Model(&models.User{}).
		Where("username = ?", cfg.AdminUsername).
		Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Could not hash bootstrap admin password: %v", err)
	}

	// The bootstrap account carries the Admin role, same as the seed
	// script this replaces.
	admin := models.User{
		Username:     cfg.AdminUsername,
		FirstName:    "System",
		LastName:     "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatalf("Could not create bootstrap admin: %v", err)
	}

	log.Printf("Bootstrap admin %q created (id=%d)", admin.Username, admin.ID)
}
