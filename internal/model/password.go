package model

import "time"

// Password — серверная модель записи пароля.
//
// EncryptedUsername и EncryptedPassword приходят от клиента уже
// зашифрованными; сервер хранит и отдаёт их как есть, не расшифровывая.
type Password struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID string `gorm:"type:uuid;not null;index"` // ссылка на users.id

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Domain     string `gorm:"not null"` // ключ группировки, не уникален сам по себе
	WebsiteURL string

	EncryptedUsername string `gorm:"not null"`
	EncryptedPassword string `gorm:"not null"`

	// Notes на этом слое — как прислал клиент; шифрование на его стороне.
	Notes string

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SharedPassword — проекция чужой записи, видимой через активную привязку.
// Заполняется join-запросом, в таблицу не мигрирует.
type SharedPassword struct {
	ID                string
	UserID            string
	Domain            string
	WebsiteURL        string
	EncryptedUsername string
	EncryptedPassword string
	Notes             string
	Permissions       string
	OwnerEmail        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
