package send

import (
	"context"

	"github.com/magabrotheeeer/mail-gateway/internal/services/sender"
)

// Sender отправляет письмо и возвращает нормализованный результат.
type Sender interface {
	Send(ctx context.Context, req sender.SendRequest) sender.Result
}
