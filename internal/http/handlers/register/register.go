// Package register реализует страницу регистрации: GET /register и POST /register.
package register

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/mail-gateway/internal/http/views"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/report"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

// Handler отрисовывает форму регистрации и обрабатывает ее отправку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Form godoc
// @Summary  Форма регистрации
// @Tags     account
// @Produce  html
// @Success  200
// @Router   /register [get]
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.RegisterPage{})
}

// ServeHTTP godoc
// @Summary  Регистрация пользователя
// @Tags     account
// @Accept   x-www-form-urlencoded
// @Produce  html
// @Param    email            formData  string  true  "Email"
// @Param    password         formData  string  true  "Пароль"
// @Param    confirmPassword  formData  string  true  "Повтор пароля"
// @Success  200
// @Failure  400
// @Failure  409
// @Failure  500
// @Router   /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, views.RegisterPage{Error: "Invalid form data"})
		return
	}
	in := account.RegisterInput{
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
	}

	_, err := h.service.Register(r.Context(), in)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("registration failed", sl.Email(in.Email), sl.Err(err))
			report.Error(r.Context(), err)
		} else {
			log.Info("registration rejected", sl.Email(in.Email), sl.Err(err))
		}
		h.render(w, r, status, views.RegisterPage{Email: in.Email, Error: msg})
		return
	}

	log.Info("user registered", sl.Email(in.Email))
	h.render(w, r, http.StatusOK, views.RegisterPage{Email: in.Email, Success: true})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page views.RegisterPage) {
	if err := views.Render(w, status, views.Register, page); err != nil {
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
		return http.StatusBadRequest, "All fields are required"
	case errors.Is(err, account.ErrPasswordMismatch):
		return http.StatusBadRequest, "Passwords do not match"
	case errors.Is(err, account.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes long"
	case errors.Is(err, account.ErrInvalidEmail):
		return http.StatusBadRequest, "Invalid email address"
	case errors.Is(err, account.ErrDomainNotAllowed):
		return http.StatusBadRequest, "Registration is not available for this email address"
	case errors.Is(err, account.ErrEmailTaken):
		return http.StatusConflict, "User with this email already exists"
	case errors.Is(err, account.ErrActivationMail):
		return http.StatusInternalServerError, "Account created, but the activation email could not be sent"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
