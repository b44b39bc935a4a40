// Package storetest opens throwaway sqlite databases for repository and service tests.
package storetest

import (
	"database/sql"

	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database. The pool is pinned to one connection because
// every sqlite :memory: connection is a separate database.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := store.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Transactor wraps db without an explicit isolation level, which sqlite does not accept.
func Transactor(db *gorm.DB) store.Transactor {
	return store.NewGormTransactor(db, sql.LevelDefault)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
