package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mail-gateway/internal/models"
)

// CreateToken сохраняет токен пользователя. Повторный токен для того же
// пользователя или совпадение значения дают ErrAlreadyExists.
func (s *Storage) CreateToken(ctx context.Context, token *models.Token) error {
	const op = "storage.CreateToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := s.DB.WithContext(ctx).Create(token).Error; err != nil {
		return translate(op, err)
	}
	return nil
}

// GetTokenByUserID возвращает токен пользователя.
func (s *Storage) GetTokenByUserID(ctx context.Context, userID uuid.UUID) (*models.Token, error) {
	const op = "storage.GetTokenByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var t models.Token
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Take(&t).Error; err != nil {
		return nil, translate(op, err)
	}
	return &t, nil
}

// GetTokenByValue ищет токен по его значению.
func (s *Storage) GetTokenByValue(ctx context.Context, value string) (*models.Token, error) {
	const op = "storage.GetTokenByValue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var t models.Token
	if err := s.DB.WithContext(ctx).Where("token = ?", value).Take(&t).Error; err != nil {
		return nil, translate(op, err)
	}
	return &t, nil
}
