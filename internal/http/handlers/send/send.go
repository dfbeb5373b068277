// Package send реализует POST /send.
package send

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mail-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mail-gateway/internal/http/response"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/services/sender"
)

// Request тело запроса на отправку письма.
type Request struct {
	Email   string `json:"email" validate:"required" example:"john@example.com"`
	Subject string `json:"subject" example:"Hello"`
	Text    string `json:"text" example:"Message body"`
}

// Handler отправляет письмо через Sender.
type Handler struct {
	log      *slog.Logger
	sender   Sender
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, s Sender) *Handler {
	return &Handler{
		log:      log,
		sender:   s,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary      Отправить письмо
// @Description  Ошибка отправки возвращается с кодом 200 в поле error.
// @Tags         mail
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request  body      send.Request  true  "Письмо"
// @Success      200      {object}  response.SendResult
// @Failure      400      {object}  response.Message
// @Failure      401      {object}  response.Message
// @Failure      403      {object}  response.Message
// @Failure      429      {object}  response.Message
// @Router       /send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.send"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Msg("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			render.JSON(w, r, response.SendResult{Error: response.ValidationError(verrs)})
			return
		}
		log.Error("validation failed", sl.Err(err))
		render.JSON(w, r, response.SendResult{Error: "invalid request"})
		return
	}

	sreq := sender.SendRequest{
		To:      req.Email,
		Subject: req.Subject,
		Text:    req.Text,
		IP:      clientIP(r),
	}
	if userID, ok := middlewarectx.UserIDFrom(r.Context()); ok {
		sreq.UserID = &userID
	}
	res := h.sender.Send(r.Context(), sreq)
	if !res.OK() {
		log.Error("failed to send message", sl.Email(req.Email), sl.Err(res.Err))
		render.JSON(w, r, response.SendResult{Error: res.ErrorMessage()})
		return
	}

	log.Info("message sent", sl.Email(req.Email), slog.String("message_id", res.ID))
	render.JSON(w, r, response.SendResult{ID: res.ID, Status: res.Status})
}

// clientIP возвращает адрес клиента; middleware.RealIP уже подставил X-Forwarded-For.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
