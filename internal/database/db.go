package database

import (
	"strings"

	"github.com/wiruacademy/clubsite/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the database named by the DSN. A postgresql:// URL selects
// the postgres driver; anything else is treated as a SQLite file path, which
// is the development default.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	DB = db
	return db, nil
}

// Migrate creates any missing tables from the model declarations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RoleChangeLog{},
		&models.News{},
		&models.Schedule{},
		&models.Trainer{},
		&models.Signup{},
		&models.Document{},
	)
}
