package activate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mail-gateway/internal/services/account"
)

type ActivatorMock struct {
	mock.Mock
}

func (m *ActivatorMock) Activate(ctx context.Context, id, email string) error {
	return m.Called(ctx, id, email).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestActivateHandler_ServeHTTP(t *testing.T) {
	const id = "4b1c9c58-7b8a-4d8a-9a43-6b0d0f7e8c11"

	tests := []struct {
		name       string
		mockErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "activated", wantStatus: http.StatusOK, wantBody: "Your account has been activated"},
		{name: "missing params", mockErr: account.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantBody: `"message":"User id and email are required"`},
		{name: "not found", mockErr: account.ErrUserNotFound, wantStatus: http.StatusNotFound, wantBody: `"message":"User not found"`},
		{name: "already verified", mockErr: account.ErrAlreadyVerified, wantStatus: http.StatusBadRequest, wantBody: `"message":"User is already verified"`},
		{name: "store error", mockErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantBody: `"message":"Internal server error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := new(ActivatorMock)
			act.On("Activate", mock.Anything, id, "john@example.com").Return(tt.mockErr).Once()

			r := chi.NewRouter()
			r.Get("/user/activate/{id}", New(newNoopLogger(), act).ServeHTTP)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/activate/"+id+"?email=john%40example.com", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			act.AssertExpectations(t)
		})
	}
}
