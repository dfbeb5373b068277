// Package sender отправляет письма через SMTP-транспорт, ведет журнал
// отправленных писем и публикует события о результате отправки.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mail-gateway/internal/events"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/smtp"
	"github.com/magabrotheeeer/mail-gateway/internal/metrics"
	"github.com/magabrotheeeer/mail-gateway/internal/models"
)

const (
	// DefaultLimit размер страницы журнала по умолчанию.
	DefaultLimit = 10
	// MaxLimit максимальный размер страницы журнала.
	MaxLimit = 100
)

// Transport отправляет одно письмо.
type Transport interface {
	Send(ctx context.Context, env smtp.Envelope) (smtp.Receipt, error)
}

// MessageRepository хранит журнал отправленных писем.
type MessageRepository interface {
	// SaveMessage добавляет запись в журнал.
	SaveMessage(ctx context.Context, msg *models.Message) error
	// ListMessages возвращает limit записей, пропустив offset.
	ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error)
}

// SendRequest входные данные одной отправки.
type SendRequest struct {
	To      string
	Subject string
	Text    string
	IP      string
	UserID  *uuid.UUID // владелец токена в режиме token
}

// Result итог отправки: либо ID и Status, либо Err.
type Result struct {
	ID     string
	Status string
	Err    error
}

// OK сообщает, принято ли письмо сервером.
func (r Result) OK() bool {
	return r.Err == nil
}

// ErrorMessage возвращает текст исходной ошибки транспорта без префиксов операций.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	err := r.Err
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// Service реализует отправку писем и чтение журнала.
type Service struct {
	transport Transport
	repo      MessageRepository
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает Service. repo может быть nil: тогда журнал не ведется.
func NewService(transport Transport, repo MessageRepository, publisher events.Publisher, m *metrics.Metrics, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		transport: transport,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Send отправляет письмо как есть, без проверки адреса. Результат записывается
// в журнал независимо от исхода; ошибки журнала и брокера только логируются.
func (s *Service) Send(ctx context.Context, req SendRequest) Result {
	const op = "sender.Send"

	var res Result
	receipt, err := s.transport.Send(ctx, smtp.Envelope{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
	})
	if err != nil {
		res.Err = err
	} else {
		res.ID = receipt.MessageID
		res.Status = receipt.Response
	}
	s.metrics.MailSend(res.OK())

	entry := &models.Message{
		EmailTo:   req.To,
		Subject:   req.Subject,
		Text:      req.Text,
		MessageID: res.ID,
		Error:     res.ErrorMessage(),
		CreatedAt: s.now().UTC(),
	}
	entry.UserID = req.UserID
	if req.IP != "" {
		ip := req.IP
		entry.IP = &ip
	}
	s.record(ctx, op, entry)

	return res
}

// SendActivation отправляет письмо со ссылкой активации учетной записи.
func (s *Service) SendActivation(ctx context.Context, user *models.User, link string) error {
	const op = "sender.SendActivation"

	res := s.Send(ctx, SendRequest{
		To:      user.Email,
		Subject: "Activate your account",
		Text: fmt.Sprintf("Hello!\n\nTo activate your account follow the link:\n%s\n\n"+
			"If you did not register, ignore this message.", link),
	})
	if !res.OK() {
		return fmt.Errorf("%s: %w", op, res.Err)
	}
	return nil
}

// ListMessages возвращает страницу журнала. page начинается с 1, смещение (page-1)*limit.
func (s *Service) ListMessages(ctx context.Context, page, limit int) ([]models.Message, error) {
	const op = "sender.ListMessages"
	if s.repo == nil {
		return []models.Message{}, nil
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page-1 > math.MaxInt/limit {
		// смещение не помещается в int: таких записей заведомо нет
		return []models.Message{}, nil
	}

	list, err := s.repo.ListMessages(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) record(ctx context.Context, op string, entry *models.Message) {
	if s.repo != nil {
		if err := s.repo.SaveMessage(ctx, entry); err != nil {
			s.log.Error("failed to save message log entry",
				slog.String("op", op),
				sl.Email(entry.EmailTo),
				sl.Err(err),
			)
		}
	}

	key := events.MessageSent
	if entry.Error != "" {
		key = events.MessageFailed
	}
	event := events.MessageEvent{
		LogID:     entry.ID,
		MessageID: entry.MessageID,
		EmailTo:   entry.EmailTo,
		Subject:   entry.Subject,
		Error:     entry.Error,
		At:        entry.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.log.Warn("failed to publish message event",
			slog.String("op", op),
			slog.String("key", key),
			sl.Err(err),
		)
	}
}
