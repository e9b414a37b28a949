package db

import (
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the SQLite database connection and runs migrations.
func InitDB(dbPath string) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate all models
	if err := database.AutoMigrate(
		&models.Principal{},
		&models.Account{},
		&models.Profile{},
		&models.ExternalIdentity{},
		&models.ProfileAttribute{},
		&models.MergeRequest{},
		&models.Config{},
	); err != nil {
		return nil, err
	}

	// Ensure session signing secret exists (generate on first run)
	ensureSessionSecret(database)

	return database, nil
}

// ensureSessionSecret generates the JWT signing secret if not present
func ensureSessionSecret(database *gorm.DB) {
	var config models.Config
	result := database.Where("key = ?", "session_secret").First(&config)

	if result.Error != nil {
		secretBytes := make([]byte, 32)
		rand.Read(secretBytes)

		database.Create(&models.Config{
			Key:   "session_secret",
			Value: hex.EncodeToString(secretBytes),
		})
		log.Printf("🔑 Generated new session signing secret")
	}
}

// GetSessionSecret retrieves the session signing secret from the database.
func GetSessionSecret(database *gorm.DB) string {
	var config models.Config
	database.Where("key = ?", "session_secret").First(&config)
	return config.Value
}
