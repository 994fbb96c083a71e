package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"tienda/config"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, time.Second)

	require.NoError(t, p.Publish(t.Context(), "order-1", "order.placed", `{"order_code":"ORD-1"}`))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.JSONEq(t, `{"order_code":"ORD-1"}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "order.placed", string(msg.Headers[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_WrapsWriteError(t *testing.T) {
	broker := errors.New("leader not available")
	p := newPublisher(&fakeWriter{err: broker}, 0)

	err := p.Publish(t.Context(), "order-1", "order.status_changed", "{}")
	assert.ErrorIs(t, err, broker)
	assert.Contains(t, err.Error(), "order.status_changed")
}

func TestNewPublisher_Validation(t *testing.T) {
	_, err := NewPublisher(config.KafkaConfig{Topic: "orders"})
	assert.Error(t, err)

	_, err = NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)

	p, err := NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "orders"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
