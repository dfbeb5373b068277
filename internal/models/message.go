package models

import (
	"time"

	"github.com/google/uuid"
)

// Message запись журнала отправленных писем. Записи только добавляются.
type Message struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	EmailTo   string     `gorm:"size:320;not null" json:"emailTo"`
	Subject   string     `gorm:"not null" json:"subject"`
	Text      string     `gorm:"not null" json:"text"`
	IP        *string    `gorm:"size:64" json:"ip,omitempty"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"userId,omitempty"`
	MessageID string     `gorm:"size:255" json:"messageId,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TableName задаёт имя таблицы журнала.
func (Message) TableName() string {
	return "messages"
}
