package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/mail-gateway/internal/models"
)

// SaveMessage добавляет запись в журнал писем.
func (s *Storage) SaveMessage(ctx context.Context, msg *models.Message) error {
	const op = "storage.SaveMessage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return translate(op, err)
	}
	return nil
}

// ListMessages возвращает записи журнала в порядке добавления.
func (s *Storage) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error) {
	const op = "storage.ListMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result := make([]models.Message, 0, limit)
	if err := s.DB.WithContext(ctx).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&result).Error; err != nil {
		return nil, translate(op, err)
	}
	return result, nil
}
