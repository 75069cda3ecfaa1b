package model

import "time"

// Статусы и права привязки аккаунтов.
const (
	BindingStatusPending = "pending"
	BindingStatusActive  = "active"

	PermissionRead  = "read"
	PermissionWrite = "write"
)

// Binding — направленная привязка: аккаунт A (инициатор) делится своими
// записями с аккаунтом B. Пара (A, B) уникальна; обратная пара (B, A) —
// отдельная независимая привязка.
type Binding struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	AccountAID string `gorm:"column:account_a_id;type:uuid;not null;index;uniqueIndex:idx_binding_pair"`
	AccountBID string `gorm:"column:account_b_id;type:uuid;not null;index;uniqueIndex:idx_binding_pair"`

	BindingStatus string `gorm:"not null;default:pending"`
	Permissions   string `gorm:"not null;default:read"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName сохраняет историческое имя таблицы.
func (Binding) TableName() string { return "account_bindings" }

// BindingWithEmail — привязка вместе с email второй стороны для списков:
// BoundAccountEmail заполняется для исходящих (активных) привязок,
// RequesterEmail — для входящих pending-запросов.
type BindingWithEmail struct {
	ID                string
	AccountAID        string `gorm:"column:account_a_id"`
	AccountBID        string `gorm:"column:account_b_id"`
	BindingStatus     string
	Permissions       string
	BoundAccountEmail string
	RequesterEmail    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
