package register

import (
	"context"

	"github.com/magabrotheeeer/mail-gateway/internal/models"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

// Service регистрирует пользователя.
type Service interface {
	Register(ctx context.Context, in account.RegisterInput) (*models.User, error)
}
