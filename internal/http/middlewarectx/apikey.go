// Package middlewarectx содержит HTTP middleware проверки доступа к отправке
// писем и ограничения частоты запросов.
//
// APIKeyMiddleware сравнивает заголовок со статическим ключом и отвечает 403.
// TokenMiddleware ищет персональный токен пользователя, отвечает 401 и в
// случае успеха добавляет в контекст ID владельца токена.
package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mail-gateway/internal/http/response"
	"github.com/magabrotheeeer/mail-gateway/internal/metrics"
)

// Причины отказа для метрик.
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
	ReasonError   = "error"
)

// APIKeyMiddleware пропускает запрос, только если заголовок header точно равен key.
func APIKeyMiddleware(key, header string, m *metrics.Metrics, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.APIKeyMiddleware"

			got := r.Header.Get(header)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				reason := ReasonInvalid
				if got == "" {
					reason = ReasonMissing
				}
				log.Warn("api key rejected",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("reason", reason),
				)
				m.GateRejection(reason)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Unauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
