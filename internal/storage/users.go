package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mail-gateway/internal/models"
)

// CreateUser сохраняет нового пользователя; ID заполняется базой.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return translate(op, err)
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, translate(op, err)
	}
	return &u, nil
}

// GetUserByIDAndEmail возвращает пользователя, у которого совпадают и ID, и email.
func (s *Storage) GetUserByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (*models.User, error) {
	const op = "storage.GetUserByIDAndEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var u models.User
	if err := s.DB.WithContext(ctx).Where("id = ? AND email = ?", id, email).Take(&u).Error; err != nil {
		return nil, translate(op, err)
	}
	return &u, nil
}

// UpdateUserRole меняет роль пользователя.
func (s *Storage) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	const op = "storage.UpdateUserRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
