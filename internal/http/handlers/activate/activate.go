// Package activate реализует GET /user/activate/{id}.
package activate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mail-gateway/internal/http/response"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/report"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

// Activator активирует учетную запись.
type Activator interface {
	Activate(ctx context.Context, id, email string) error
}

// Handler обрабатывает переход по ссылке активации.
type Handler struct {
	log       *slog.Logger
	activator Activator
}

// New создает Handler.
func New(log *slog.Logger, activator Activator) *Handler {
	return &Handler{log: log, activator: activator}
}

// ServeHTTP godoc
// @Summary  Активация учетной записи
// @Tags     account
// @Produce  plain
// @Param    id     path      string  true  "ID пользователя"
// @Param    email  query     string  true  "Email пользователя"
// @Success  200    {string}  string
// @Failure  400    {object}  response.Message
// @Failure  404    {object}  response.Message
// @Failure  500    {object}  response.Message
// @Router   /user/activate/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	email := r.URL.Query().Get("email")

	err := h.activator.Activate(r.Context(), id, email)
	switch {
	case err == nil:
		log.Info("user activated", slog.String("user_id", id))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Your account has been activated. You can now create an API token."))
		return
	case errors.Is(err, account.ErrInvalidInput):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Msg("User id and email are required"))
	case errors.Is(err, account.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Msg("User not found"))
	case errors.Is(err, account.ErrAlreadyVerified):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Msg("User is already verified"))
	default:
		log.Error("activation failed", sl.Err(err))
		report.Error(r.Context(), err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Internal())
		return
	}
	log.Info("activation rejected", sl.Err(err))
}
