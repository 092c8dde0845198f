package database

import (
	"log"
	"os"
	"time"

	"boardmatch/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database connection and runs migrations.
func Connect(dsn string) (*gorm.DB, error) {
	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
	})
	if err != nil {
		return nil, err
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.GameLibraryEntry{},
		&models.AvailabilitySlot{},
		&models.GameData{},
		&models.Session{},
		&models.UserSwipe{},
		&models.SessionFeedback{},
		&models.Notification{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
