// Package token реализует страницу выдачи API-токена: GET и POST /create/token.
package token

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mail-gateway/internal/http/response"
	"github.com/magabrotheeeer/mail-gateway/internal/http/views"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/report"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

// Request данные формы выдачи токена.
type Request struct {
	Email    string `validate:"required,max=255"`
	Password string `validate:"required"`
}

// Handler отрисовывает форму и выдает токен.
type Handler struct {
	log      *slog.Logger
	issuer   Issuer
	header   string
	validate *validator.Validate
}

// New создает Handler. header задает имя заголовка, в котором клиент передает токен.
func New(log *slog.Logger, issuer Issuer, header string) *Handler {
	return &Handler{
		log:      log,
		issuer:   issuer,
		header:   header,
		validate: validator.New(),
	}
}

// Form godoc
// @Summary  Форма получения API-токена
// @Tags     account
// @Produce  html
// @Success  200
// @Router   /create/token [get]
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.TokenPage{})
}

// ServeHTTP godoc
// @Summary  Получение API-токена
// @Tags     account
// @Accept   x-www-form-urlencoded
// @Produce  html
// @Param    email     formData  string  true  "Email"
// @Param    password  formData  string  true  "Пароль"
// @Success  201
// @Failure  400
// @Failure  401
// @Failure  403
// @Failure  404
// @Failure  500
// @Router   /create/token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.token"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, views.TokenPage{Error: "Invalid form data"})
		return
	}
	req := Request{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		msg := "Email and password are required"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msg = response.ValidationError(verrs)
		}
		log.Info("validation failed", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, views.TokenPage{Email: req.Email, Error: msg})
		return
	}

	value, err := h.issuer.IssueToken(r.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("token issuance failed", sl.Email(req.Email), sl.Err(err))
			report.Error(r.Context(), err)
		} else {
			log.Info("token issuance rejected", sl.Email(req.Email), sl.Err(err))
		}
		h.render(w, r, status, views.TokenPage{Email: req.Email, Error: msg})
		return
	}

	log.Info("token issued", sl.Email(req.Email))
	h.render(w, r, http.StatusCreated, views.TokenPage{Email: req.Email, Token: value, Header: h.header})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page views.TokenPage) {
	if err := views.Render(w, status, views.Token, page); err != nil {
		h.log.Error("failed to render page",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		return http.StatusBadRequest, "Email and password are required"
	case errors.Is(err, account.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid password"
	case errors.Is(err, account.ErrNotActivated):
		return http.StatusForbidden, "Activate your account first, check your email"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
