// Package models содержит доменные модели сервиса: пользователя, его API-токен
// и журнал отправленных писем. Структуры используются в бизнес‑логике и
// отображаются на таблицы через gorm.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role уровень доступа учётной записи.
type Role string

const (
	// RoleGuest зарегистрированный, но не активированный пользователь.
	RoleGuest Role = "GUEST"
	// RoleUser активированный пользователь.
	RoleUser Role = "USER"
	// RoleAdmin администратор.
	RoleAdmin Role = "ADMIN"
)

// IsActivated сообщает, прошла ли учётная запись активацию.
func (r Role) IsActivated() bool {
	return r == RoleUser || r == RoleAdmin
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt-хеш
	Role      Role      `gorm:"size:16;not null;default:GUEST" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName задаёт имя таблицы пользователей.
func (User) TableName() string {
	return "users"
}
