package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mailboard/pkg/config"
)

// NewPostgresConnection opens the database. TranslateError is on so unique
// index violations surface as gorm.ErrDuplicatedKey and the repositories can
// map them to domain errors.
func NewPostgresConnection(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("[Database] Connected to postgres")
	return db, nil
}
