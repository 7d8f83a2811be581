package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentmojo-api/internal/application/ports"
)

type mockChannel struct{ mock.Mock }

func (m *mockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *mockChannel) Close() error { return m.Called().Error(0) }

func event() ports.RentalEvent {
	return ports.RentalEvent{
		Type:       ports.EventRentalCancelled,
		RentalID:   "r1",
		UserID:     "u1",
		ActorID:    "u1",
		Status:     "cancelled",
		OccurredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestPublish_RoutingKeyAndBody(t *testing.T) {
	ch := new(mockChannel)
	var sent amqp.Publishing
	ch.On("Publish", "rentals", ports.EventRentalCancelled, false, false, mock.AnythingOfType("amqp.Publishing")).
		Run(func(args mock.Arguments) { sent = args.Get(4).(amqp.Publishing) }).
		Return(nil).Once()

	p := &AMQPPublisher{ch: ch, exchange: "rentals", log: zerolog.Nop()}
	require.NoError(t, p.Publish(context.Background(), event()))

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	var got ports.RentalEvent
	require.NoError(t, json.Unmarshal(sent.Body, &got))
	assert.Equal(t, "r1", got.RentalID)
	assert.Equal(t, "cancelled", got.Status)
	ch.AssertExpectations(t)
}

func TestPublish_ErrorIsReturned(t *testing.T) {
	ch := new(mockChannel)
	boom := errors.New("channel closed")
	ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).Return(boom).Once()

	p := &AMQPPublisher{ch: ch, exchange: "rentals", log: zerolog.Nop()}
	assert.ErrorIs(t, p.Publish(context.Background(), event()), boom)
}

func TestClose(t *testing.T) {
	ch := new(mockChannel)
	ch.On("Close").Return(nil).Once()
	p := &AMQPPublisher{ch: ch, log: zerolog.Nop()}
	assert.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), event()))
}
