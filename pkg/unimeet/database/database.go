package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect initializes the database connection.
// A non-empty databaseURL selects Postgres; otherwise SQLite at dbPath.
func Connect(dbPath, databaseURL string) error {
	var err error
	if databaseURL != "" {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}
	return err
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
