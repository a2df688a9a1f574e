package notifications_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/notifications"
	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisher_KeysAndHeaders(t *testing.T) {
	producer := &MockProducer{}
	publisher := notifications.NewKafkaPublisher(producer, discardLogger())

	orderID := kernel.NewUUID()
	ownerID := kernel.NewUUID()
	balance := kernel.Money(700)
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	confirmed := events.Event{ID: kernel.NewUUID(), Type: events.OrderConfirmed, OrderID: &orderID, OccurredAt: at}
	low := events.Event{ID: kernel.NewUUID(), Type: events.LowBalance, OwnerID: &ownerID, Balance: &balance, OccurredAt: at}

	var sent []kafka.Message
	producer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	require.NoError(t, publisher.Publish(t.Context(), confirmed, low))

	require.Len(t, sent, 2)
	assert.Equal(t, orderID.String(), string(sent[0].Key))
	assert.Equal(t, ownerID.String(), string(sent[1].Key))
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte("LowBalance")}}, sent[1].Headers)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(sent[1].Value, &decoded))
	assert.Equal(t, low.ID, decoded.ID)
	assert.Equal(t, balance, *decoded.Balance)
	producer.AssertExpectations(t)
}

func TestKafkaPublisher_NothingToSend(t *testing.T) {
	producer := &MockProducer{}
	publisher := notifications.NewKafkaPublisher(producer, discardLogger())

	require.NoError(t, publisher.Publish(t.Context()))
	producer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	producer := &MockProducer{}
	publisher := notifications.NewKafkaPublisher(producer, discardLogger())
	producer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := publisher.Publish(t.Context(), events.Event{ID: kernel.NewUUID(), Type: events.OrderDelivered})

	assert.ErrorContains(t, err, "broker down")
}

func TestLogPublisher_WritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	publisher := notifications.NewLogPublisher(slog.New(slog.NewTextHandler(&buf, nil)))
	orderID := kernel.NewUUID()

	err := publisher.Publish(t.Context(),
		events.Event{ID: kernel.NewUUID(), Type: events.OrderConfirmed, OrderID: &orderID},
		events.Event{ID: kernel.NewUUID(), Type: events.OrderCancelled, OrderID: &orderID},
	)

	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("msg=event")))
	assert.Contains(t, buf.String(), "type=OrderCancelled")
	assert.Contains(t, buf.String(), "key="+orderID.String())
}
