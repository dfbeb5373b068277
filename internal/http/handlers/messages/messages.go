// Package messages реализует GET /messages: постраничный просмотр журнала писем.
package messages

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mail-gateway/internal/lib/report"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/models"
)

// Lister читает страницу журнала.
type Lister interface {
	ListMessages(ctx context.Context, page, limit int) ([]models.Message, error)
}

// Handler отдает журнал писем.
type Handler struct {
	log    *slog.Logger
	lister Lister
}

// New создает Handler.
func New(log *slog.Logger, lister Lister) *Handler {
	return &Handler{log: log, lister: lister}
}

// ServeHTTP godoc
// @Summary      Журнал отправленных писем
// @Description  page < 1 перенаправляет на page=1. Ошибка хранилища дает пустой список.
// @Tags         mail
// @Produce      json
// @Param        page   query     int  false  "Номер страницы"  default(1)
// @Param        limit  query     int  false  "Размер страницы" default(10)
// @Success      200    {array}   models.Message
// @Success      302
// @Router       /messages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	page := 1
	if s := q.Get("page"); s != "" {
		if p, err := strconv.Atoi(s); err == nil {
			page = p
		}
	}
	if page < 1 {
		redirect := url.Values{}
		redirect.Set("page", "1")
		if l := q.Get("limit"); l != "" {
			redirect.Set("limit", l)
		}
		http.Redirect(w, r, r.URL.Path+"?"+redirect.Encode(), http.StatusFound)
		return
	}

	limit := 0
	if s := q.Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil {
			limit = l
		}
	}

	list, err := h.lister.ListMessages(r.Context(), page, limit)
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		report.Error(r.Context(), err)
		list = nil
	}
	if list == nil {
		list = []models.Message{}
	}

	log.Info("list messages", slog.Int("page", page), slog.Int("count", len(list)))
	render.JSON(w, r, list)
}
