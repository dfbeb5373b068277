package token

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

type IssuerMock struct {
	mock.Mock
}

func (m *IssuerMock) IssueToken(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func postForm(email, password string) *http.Request {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/create/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestTokenHandler_Form(t *testing.T) {
	rec := httptest.NewRecorder()
	New(newNoopLogger(), new(IssuerMock), "apikey").Form(rec, httptest.NewRequest(http.MethodGet, "/create/token", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/create/token"`)
}

func TestTokenHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		mockToken  string
		mockErr    error
		callIssuer bool
		wantStatus int
		wantText   string
	}{
		{name: "issued", email: "john@example.com", password: "secret", mockToken: "mk_abc", callIssuer: true, wantStatus: http.StatusCreated, wantText: "mk_abc"},
		{name: "missing password", email: "john@example.com", wantStatus: http.StatusBadRequest, wantText: "field Password is a required field"},
		{name: "unknown user", email: "nobody@example.com", password: "secret", mockErr: account.ErrUserNotFound, callIssuer: true, wantStatus: http.StatusNotFound, wantText: "User not found"},
		{name: "wrong password", email: "john@example.com", password: "bad", mockErr: account.ErrInvalidCredentials, callIssuer: true, wantStatus: http.StatusUnauthorized, wantText: "Invalid password"},
		{name: "not activated", email: "john@example.com", password: "secret", mockErr: account.ErrNotActivated, callIssuer: true, wantStatus: http.StatusForbidden, wantText: "Activate your account"},
		{name: "store error", email: "john@example.com", password: "secret", mockErr: errors.New("db down"), callIssuer: true, wantStatus: http.StatusInternalServerError, wantText: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := new(IssuerMock)
			if tt.callIssuer {
				issuer.On("IssueToken", mock.Anything, tt.email, tt.password).Return(tt.mockToken, tt.mockErr).Once()
			}

			rec := httptest.NewRecorder()
			New(newNoopLogger(), issuer, "apikey").ServeHTTP(rec, postForm(tt.email, tt.password))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
			issuer.AssertExpectations(t)
		})
	}
}
