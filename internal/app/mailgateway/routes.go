// Package mailgateway собирает зависимости сервиса и регистрирует HTTP-маршруты.
package mailgateway

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/mail-gateway/internal/config"
	"github.com/magabrotheeeer/mail-gateway/internal/http/handlers/activate"
	"github.com/magabrotheeeer/mail-gateway/internal/http/handlers/info"
	"github.com/magabrotheeeer/mail-gateway/internal/http/handlers/messages"
	"github.com/magabrotheeeer/mail-gateway/internal/http/handlers/notfound"
	"github.com/magabrotheeeer/mail-gateway/internal/http/handlers/register"
	"github.com/magabrotheeeer/mail-gateway/internal/http/handlers/send"
	tokenhandler "github.com/magabrotheeeer/mail-gateway/internal/http/handlers/token"
	"github.com/magabrotheeeer/mail-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mail-gateway/internal/metrics"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
	"github.com/magabrotheeeer/mail-gateway/internal/services/sender"

	_ "github.com/magabrotheeeer/mail-gateway/docs"
)

// Routes зависимости маршрутов. Account равен nil, если база не настроена.
type Routes struct {
	Log      *slog.Logger
	Config   *config.Config
	Sender   *sender.Service
	Account  *account.Service
	Metrics  *metrics.Metrics
	Registry prometheus.Gatherer
	Limiter  *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Routes) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	cfg := d.Config
	var gate func(http.Handler) http.Handler
	if cfg.Mode == config.AuthModeToken && d.Account != nil {
		gate = middlewarectx.TokenMiddleware(d.Account, cfg.APIKeyHeader, d.Metrics, d.Log)
	} else {
		gate = middlewarectx.APIKeyMiddleware(cfg.APIKey, cfg.APIKeyHeader, d.Metrics, d.Log)
	}

	r.Group(func(r chi.Router) {
		r.Use(gate)
		if cfg.Mode == config.AuthModeAPIKey {
			r.Get("/", info.New(cfg.AppName, cfg.AppVersion).ServeHTTP)
		}
		r.With(middlewarectx.RateLimitMiddleware(d.Limiter, d.Log)).
			Post("/send", send.New(d.Log, d.Sender).ServeHTTP)
	})

	if d.Account != nil {
		if cfg.Mode == config.AuthModeToken {
			r.Get("/", http.RedirectHandler("/create/token", http.StatusFound).ServeHTTP)
		}

		registerHandler := register.New(d.Log, d.Account)
		r.Get("/register", registerHandler.Form)
		r.Post("/register", registerHandler.ServeHTTP)

		r.Get("/user/activate/{id}", activate.New(d.Log, d.Account).ServeHTTP)

		tokenHandler := tokenhandler.New(d.Log, d.Account, cfg.APIKeyHeader)
		r.Get("/create/token", tokenHandler.Form)
		r.Post("/create/token", tokenHandler.ServeHTTP)

		r.Get("/messages", messages.New(d.Log, d.Sender).ServeHTTP)
	}

	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(notfound.ServeHTTP)
	r.MethodNotAllowed(notfound.ServeHTTP)
}
