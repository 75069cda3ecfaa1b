package model

import "time"

// User — учётная запись пользователя.
type User struct {
	ID    string `gorm:"primaryKey;type:uuid"`
	Email string `gorm:"uniqueIndex;not null"`

	// Хэш bcrypt; открытый пароль никогда не сохраняется.
	PasswordHash string `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
