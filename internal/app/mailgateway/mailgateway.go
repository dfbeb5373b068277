package mailgateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/mail-gateway/internal/cache"
	"github.com/magabrotheeeer/mail-gateway/internal/config"
	"github.com/magabrotheeeer/mail-gateway/internal/events"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/password"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/smtp"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/token"
	"github.com/magabrotheeeer/mail-gateway/internal/metrics"
	"github.com/magabrotheeeer/mail-gateway/internal/migrations"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
	"github.com/magabrotheeeer/mail-gateway/internal/services/sender"
	"github.com/magabrotheeeer/mail-gateway/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App собранный сервис: HTTP-сервер и ресурсы, которые нужно закрыть при остановке.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  cache.Cache
	amqpCh *amqp.Channel
	amqpC  *amqp.Connection
	sentry bool
}

// New подключается к внешним сервисам, применяет миграции и собирает маршруты.
// База, Redis, RabbitMQ и Sentry необязательны.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "mailgateway.New"
	var err error
	a := &App{logger: logger}
	ready := false
	defer func() {
		if !ready {
			a.closeResources()
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.HasStorage() {
		a.db, err = storage.New(ctx, cfg.StorageConnectionString, storage.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sqlDB, err := a.db.SQLDB()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(sqlDB, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if cfg.AddressRedis != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.cache = rc
	} else {
		a.cache = cache.NewMemory(cfg.CacheTTL)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		a.amqpC, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQRetries, cfg.RabbitMQDelay)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.amqpCh, err = rabbitmq.SetupExchange(a.amqpC, cfg.RabbitMQExchange)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = events.NewAMQP(a.amqpCh, cfg.RabbitMQExchange)
	}

	transport := smtp.NewTransport(smtp.Config{
		Host:    cfg.SMTPHost,
		Port:    cfg.SMTPPort,
		Secure:  cfg.SMTPSecure,
		User:    cfg.SMTPUser,
		Pass:    cfg.SMTPPass,
		From:    cfg.SMTPFrom,
		Timeout: cfg.SMTPTimeout,
	}, logger)

	var senderService *sender.Service
	var accountService *account.Service
	if a.db != nil {
		senderService = sender.NewService(transport, a.db, publisher, m, logger)
		accountService = account.NewService(a.db, a.db, senderService, account.Options{
			Hasher:    password.NewHasher(cfg.BcryptCost),
			Generator: token.NewGenerator(cfg.TokenPrefix, cfg.TokenLength),
			Cache:     a.cache,
			Policy: account.Policy{
				AllowedDomains:   cfg.AllowedDomains,
				AllowedAddresses: cfg.AllowedAddresses,
			},
			AppURL:   cfg.AppURL,
			CacheTTL: cfg.CacheTTL,
			Metrics:  m,
		}, logger)
	} else {
		senderService = sender.NewService(transport, nil, publisher, m, logger)
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), max(cfg.Burst, 1))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, Routes{
		Log:      logger,
		Config:   cfg,
		Sender:   senderService,
		Account:  accountService,
		Metrics:  m,
		Registry: registry,
		Limiter:  limiter,
	})

	var handler http.Handler = router
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			Release:     cfg.AppName + "@" + cfg.AppVersion,
		}); err != nil {
			return nil, fmt.Errorf("%s: sentry init: %w", op, err)
		}
		a.sentry = true
		handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(router)
	}

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      handler,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	ready = true
	return a, nil
}

// Handler возвращает корневой HTTP-обработчик.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeResources()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeResources()
		return err
	}
}

func (a *App) closeResources() {
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpC != nil {
		if err := a.amqpC.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close cache", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", sl.Err(err))
		}
	}
	if a.sentry {
		sentry.Flush(2 * time.Second)
	}
}
