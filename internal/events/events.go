// Package events публикует доменные события сервиса во внешний брокер.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/magabrotheeeer/mail-gateway/internal/lib/rabbitmq"
)

const (
	// MessageSent письмо принято SMTP-сервером.
	MessageSent = "message.sent"
	// MessageFailed отправка письма завершилась ошибкой.
	MessageFailed = "message.failed"
)

// MessageEvent тело событий о письмах.
type MessageEvent struct {
	LogID     int64     `json:"log_id,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	EmailTo   string    `json:"email_to"`
	Subject   string    `json:"subject"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher отправляет событие с ключом маршрутизации key.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// Nop ничего не публикует; используется, когда брокер не настроен.
type Nop struct{}

// Publish ничего не делает.
func (Nop) Publish(context.Context, string, any) error { return nil }

// AMQP публикует события в exchange RabbitMQ.
type AMQP struct {
	mu       sync.Mutex
	ch       rabbitmq.Publisher
	exchange string
}

// NewAMQP создает издателя поверх открытого канала.
func NewAMQP(ch rabbitmq.Publisher, exchange string) *AMQP {
	return &AMQP{ch: ch, exchange: exchange}
}

// Publish сериализует payload и публикует его. Канал AMQP используется под мьютексом.
func (p *AMQP) Publish(ctx context.Context, key string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return rabbitmq.PublishMessage(p.ch, p.exchange, key, payload)
}
