package models

import (
	"time"

	"github.com/google/uuid"
)

// Token персональный API-токен пользователя, не больше одного на пользователя.
type Token struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:128;not null;uniqueIndex" json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName задаёт имя таблицы токенов.
func (Token) TableName() string {
	return "tokens"
}
