package events

import (
	"context"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestAMQP_Publish(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Publish", "mail", MessageSent, false, false, mock.Anything).Return(nil).Once()

	p := NewAMQP(ch, "mail")
	err := p.Publish(context.Background(), MessageSent, MessageEvent{EmailTo: "john@example.com"})
	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestAMQP_PublishCanceled(t *testing.T) {
	ch := new(MockChannel)
	p := NewAMQP(ch, "mail")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, MessageFailed, MessageEvent{})
	require.ErrorIs(t, err, context.Canceled)
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNop_Publish(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), MessageSent, nil))
}
