package register

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mail-gateway/internal/models"
	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, in account.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_Form(t *testing.T) {
	rec := httptest.NewRecorder()
	New(newNoopLogger(), new(ServiceMock)).Form(rec, httptest.NewRequest(http.MethodGet, "/register", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/register">`)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		mockErr    error
		wantStatus int
		wantText   string
	}{
		{name: "success", wantStatus: http.StatusOK, wantText: "Check your email"},
		{name: "mismatch", mockErr: account.ErrPasswordMismatch, wantStatus: http.StatusBadRequest, wantText: "Passwords do not match"},
		{name: "missing fields", mockErr: account.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantText: "All fields are required"},
		{name: "password too long", mockErr: account.ErrPasswordTooLong, wantStatus: http.StatusBadRequest, wantText: "at most 72 bytes"},
		{name: "invalid email", mockErr: account.ErrInvalidEmail, wantStatus: http.StatusBadRequest, wantText: "Invalid email address"},
		{name: "domain", mockErr: account.ErrDomainNotAllowed, wantStatus: http.StatusBadRequest, wantText: "not available"},
		{name: "duplicate", mockErr: account.ErrEmailTaken, wantStatus: http.StatusConflict, wantText: "already exists"},
		{name: "mail failure", mockErr: fmt.Errorf("account.Register: %w: %w", account.ErrActivationMail, errors.New("smtp")), wantStatus: http.StatusInternalServerError, wantText: "activation email"},
		{name: "store failure", mockErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantText: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			in := account.RegisterInput{Email: "john@example.com", Password: "secret", ConfirmPassword: "secret"}
			var user *models.User
			if tt.mockErr == nil {
				user = &models.User{Email: in.Email, Role: models.RoleGuest}
			}
			svc.On("Register", mock.Anything, in).Return(user, tt.mockErr).Once()

			form := url.Values{}
			form.Set("email", in.Email)
			form.Set("password", in.Password)
			form.Set("confirmPassword", in.ConfirmPassword)
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
			svc.AssertExpectations(t)
		})
	}
}
