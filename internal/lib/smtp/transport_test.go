package smtp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) DialAndSend(msgs ...*mail.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testConfig() Config {
	return Config{
		Host: "smtp.example.com",
		Port: 465,
		From: "robot@example.com",
	}
}

func TestTransport_Send(t *testing.T) {
	dialer := new(MockDialer)
	var sent *mail.Message
	dialer.On("DialAndSend", mock.Anything).Run(func(args mock.Arguments) {
		msgs := args.Get(0).([]*mail.Message)
		require.Len(t, msgs, 1)
		sent = msgs[0]
	}).Return(nil).Once()

	tr := NewTransportWithDialer(testConfig(), dialer, newNoopLogger())
	tr.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	receipt, err := tr.Send(context.Background(), Envelope{
		To:      "john@example.com",
		Subject: "Hello",
		Text:    "Body text",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(receipt.MessageID, "<"))
	assert.True(t, strings.HasSuffix(receipt.MessageID, "@smtp.example.com>"))
	assert.Equal(t, "250 Accepted by smtp.example.com:465", receipt.Response)

	require.NotNil(t, sent)
	assert.Equal(t, []string{"robot@example.com"}, sent.GetHeader("From"))
	assert.Equal(t, []string{"john@example.com"}, sent.GetHeader("To"))
	assert.Equal(t, []string{"Hello"}, sent.GetHeader("Subject"))
	assert.Equal(t, []string{receipt.MessageID}, sent.GetHeader("Message-ID"))

	var buf bytes.Buffer
	_, err = sent.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Body text")

	dialer.AssertExpectations(t)
}

func TestTransport_SendError(t *testing.T) {
	dialer := new(MockDialer)
	dialer.On("DialAndSend", mock.Anything).Return(errors.New("535 authentication failed")).Once()

	tr := NewTransportWithDialer(testConfig(), dialer, newNoopLogger())

	_, err := tr.Send(context.Background(), Envelope{To: "john@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 authentication failed")
	dialer.AssertExpectations(t)
}

func TestTransport_CanceledContext(t *testing.T) {
	dialer := new(MockDialer)
	tr := NewTransportWithDialer(testConfig(), dialer, newNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Send(ctx, Envelope{To: "john@example.com"})
	require.ErrorIs(t, err, context.Canceled)
	dialer.AssertNotCalled(t, "DialAndSend", mock.Anything)
}

func TestNewTransport_ConfiguresDialer(t *testing.T) {
	cfg := testConfig()
	cfg.Secure = true
	cfg.Timeout = 3 * time.Second

	tr := NewTransport(cfg, newNoopLogger())

	d, ok := tr.dialer.(*mail.Dialer)
	require.True(t, ok)
	assert.True(t, d.SSL)
	assert.Equal(t, "smtp.example.com", d.Host)
	assert.Equal(t, 465, d.Port)
	assert.Equal(t, 3*time.Second, d.Timeout)
	assert.Equal(t, "smtp.example.com", d.TLSConfig.ServerName)
	assert.Equal(t, "robot@example.com", tr.cfg.From)
}
