package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
)

// Config параметры подключения к SMTP-серверу.
type Config struct {
	Host    string
	Port    int
	Secure  bool // неявный TLS (SMTPS); иначе STARTTLS, если сервер его поддерживает
	User    string
	Pass    string
	From    string
	Timeout time.Duration
}

// Envelope одно письмо в простом текстовом виде.
type Envelope struct {
	To      string
	Subject string
	Text    string
}

// Receipt сведения о принятом сервером письме.
type Receipt struct {
	MessageID string
	Response  string
}

// Transport реализует SMTP транспорт для отправки писем.
type Transport struct {
	cfg    Config
	dialer Dialer
	log    *slog.Logger
	now    func() time.Time
}

// NewTransport создает Transport с go-mail Dialer по настройкам cfg.
func NewTransport(cfg Config, log *slog.Logger) *Transport {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.SSL = cfg.Secure
	d.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	return NewTransportWithDialer(cfg, d, log)
}

// NewTransportWithDialer создает Transport с произвольным Dialer.
func NewTransportWithDialer(cfg Config, d Dialer, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, dialer: d, log: log, now: time.Now}
}

// Send отправляет письмо. Адрес получателя не проверяется: его разбирает сервер.
func (t *Transport) Send(ctx context.Context, env Envelope) (Receipt, error) {
	const op = "smtp.Send"
	select {
	case <-ctx.Done():
		return Receipt{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), t.cfg.Host)

	m := mail.NewMessage()
	m.SetHeader("From", t.cfg.From)
	m.SetHeader("To", env.To)
	m.SetHeader("Subject", env.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetDateHeader("Date", t.now())
	m.SetBody("text/plain", env.Text)

	if err := t.dialer.DialAndSend(m); err != nil {
		t.log.Error("smtp send failed",
			slog.String("op", op),
			slog.String("host", t.cfg.Host),
			sl.Email(env.To),
			sl.Err(err),
		)
		return Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	t.log.Info("message sent",
		slog.String("op", op),
		slog.String("message_id", messageID),
		sl.Email(env.To),
	)
	return Receipt{
		MessageID: messageID,
		Response:  "250 Accepted by " + t.cfg.Host + ":" + strconv.Itoa(t.cfg.Port),
	}, nil
}
