package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/mail-gateway/internal/http/response"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/metrics"
	"github.com/magabrotheeeer/mail-gateway/internal/models"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// UserID ключ ID владельца токена в контексте.
const UserID Key = "user_id"

// TokenLookup ищет токен по значению.
type TokenLookup interface {
	LookupToken(ctx context.Context, value string) (*models.Token, error)
}

// TokenMiddleware пропускает запрос, если в заголовке header передан выданный токен.
func TokenMiddleware(lookup TokenLookup, header string, m *metrics.Metrics, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.TokenMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			value := r.Header.Get(header)
			if value == "" {
				log.Warn("token header is missing")
				m.GateRejection(ReasonMissing)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Unauthorized())
				return
			}

			tok, err := lookup.LookupToken(r.Context(), value)
			if err != nil {
				if errors.Is(err, account.ErrTokenNotFound) {
					log.Warn("token not found")
					m.GateRejection(ReasonInvalid)
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Unauthorized())
					return
				}
				log.Error("token lookup failed", sl.Err(err))
				m.GateRejection(ReasonError)
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Internal())
				return
			}

			ctx := context.WithValue(r.Context(), UserID, tok.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom возвращает ID владельца токена, положенный TokenMiddleware.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserID).(uuid.UUID)
	return id, ok
}
