// Package storage реализует хранилище пользователей, API-токенов и журнала
// писем поверх PostgreSQL через gorm. Соединение открывается один раз при
// старте и переиспользуется всеми обработчиками через пул.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("record already exists")
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса.
const uniqueViolation = "23505"

// PoolConfig задаёт параметры пула соединений.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *gorm.DB
}

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string, pool PoolConfig) (*Storage, error) {
	const op = "storage.New"

	db, err := gorm.Open(postgres.Open(storageConnectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

// SQLDB возвращает низкоуровневый *sql.DB, например для миграций.
func (s *Storage) SQLDB() (*sql.DB, error) {
	return s.DB.DB()
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate приводит ошибки gorm и драйвера к ошибкам пакета.
func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}
