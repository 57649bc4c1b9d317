// File: /database/database.go
package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"friends-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Relationship{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Composite index for the either-direction pair lookups. Deliberately
	// not unique: duplicate pairs are guarded by the service-level
	// existence check only.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_relationships_pair ON relationships(sender_id, receiver_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for relationships pair: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_relationships_receiver_pending ON relationships(receiver_id, pending)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for relationships receiver/pending: %v\n", err)
	}

	return nil
}

// SeedData populates the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	testUsers := []models.User{
		{
			ID:            "user-1",
			Username:      "john_doe",
			Email:         "john@example.com",
			Name:          "John Doe",
			Password:      string(hash),
			EmailVerified: true,
		},
		{
			ID:            "user-2",
			Username:      "jane_smith",
			Email:         "jane@example.com",
			Name:          "Jane Smith",
			Password:      string(hash),
			EmailVerified: true,
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Username, err)
		}
	}

	return nil
}
