package send

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mail-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mail-gateway/internal/services/sender"
)

type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) Send(ctx context.Context, req sender.SendRequest) sender.Result {
	return m.Called(ctx, req).Get(0).(sender.Result)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSendHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockResult *sender.Result
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "sent",
			body:       `{"email":"john@example.com","subject":"Hi","text":"Body"}`,
			mockResult: &sender.Result{ID: "<id@host>", Status: "250 Accepted"},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"id": "<id@host>", "status": "250 Accepted"},
		},
		{
			name:       "transport failure is a 200 with error",
			body:       `{"email":"john@example.com","subject":"Hi","text":"Body"}`,
			mockResult: &sender.Result{Err: errors.New("535 authentication failed")},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"error": "535 authentication failed"},
		},
		{
			name:       "missing recipient",
			body:       `{"subject":"Hi"}`,
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"error": "field Email is a required field"},
		},
		{
			name:       "broken json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"message": "invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := new(SenderMock)
			if tt.mockResult != nil {
				s.On("Send", mock.Anything, mock.MatchedBy(func(req sender.SendRequest) bool {
					return req.To == "john@example.com" && req.Subject == "Hi" && req.Text == "Body" && req.IP == "192.0.2.1"
				})).Return(*tt.mockResult).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/send", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), s).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
			s.AssertExpectations(t)
		})
	}
}

func TestSendHandler_PassesTokenOwner(t *testing.T) {
	userID := uuid.New()
	s := new(SenderMock)
	s.On("Send", mock.Anything, mock.MatchedBy(func(req sender.SendRequest) bool {
		return req.UserID != nil && *req.UserID == userID
	})).Return(sender.Result{ID: "<id@host>", Status: "250 Accepted"}).Once()

	req := httptest.NewRequest(http.MethodPost, "/send", bytes.NewBufferString(`{"email":"john@example.com"}`))
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, userID))
	rec := httptest.NewRecorder()

	New(newNoopLogger(), s).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	s.AssertExpectations(t)
}
