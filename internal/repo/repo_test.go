package repo

import (
	"PassKeeper/internal/model"
	"fmt"
	"testing"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite)
// на каждый тест: уникальное имя, чтобы тесты не делили состояние.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	// Миграции для всех моделей, используемых в репозиториях
	if err := db.AutoMigrate(&model.User{}, &model.Password{}, &model.Binding{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}
