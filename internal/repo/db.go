package repo

import (
	"PassKeeper/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// ErrNotFound возвращается репозиториями, когда запись не найдена.
var ErrNotFound = gorm.ErrRecordNotFound

// InitDB открывает соединение с БД и прогоняет автомиграции.
// DSN со схемой postgres:// (или в форме "host=...") подключает Postgres;
// любой другой DSN считается SQLite (файл или in-memory, драйвер modernc без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		dial = postgres.Open(dsn)
	default:
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Миграции для всех серверных моделей
	if err := db.AutoMigrate(&model.User{}, &model.Password{}, &model.Binding{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	return db, nil
}
