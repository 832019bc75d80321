package adapter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopflow/internal/pkg/mq"
	"shopflow/internal/service/order/domain"
)

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestKafkaEventPublisher(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaEventPublisher(w)
	ctx := context.Background()

	require.NoError(t, p.PublishOrderPlaced(ctx, domain.OrderPlaced{OrderID: "ORD-1", CustomerID: "C-1", Total: "20000"}))
	require.NoError(t, p.PublishOrderFailed(ctx, domain.OrderPlacementFailed{OrderID: "ORD-2", CustomerID: "C-2", Stage: domain.StagePayment, Reason: "declined"}))
	require.Len(t, w.msgs, 2)

	placed := w.msgs[0]
	assert.Equal(t, "C-1", string(placed.Key))
	assert.Equal(t, EventTypeOrderPlaced, mq.HeaderValue(placed.Headers, EventTypeHeader))
	var gotPlaced domain.OrderPlaced
	require.NoError(t, json.Unmarshal(placed.Value, &gotPlaced))
	assert.Equal(t, "20000", gotPlaced.Total)

	failed := w.msgs[1]
	assert.Equal(t, EventTypeOrderFailed, mq.HeaderValue(failed.Headers, EventTypeHeader))
	var gotFailed domain.OrderPlacementFailed
	require.NoError(t, json.Unmarshal(failed.Value, &gotFailed))
	assert.Equal(t, domain.StagePayment, gotFailed.Stage)
	assert.Equal(t, "declined", gotFailed.Reason)
}

func TestLogEventPublisher(t *testing.T) {
	var p LogEventPublisher
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), domain.OrderPlaced{OrderID: "ORD-1"}))
	assert.NoError(t, p.PublishOrderFailed(context.Background(), domain.OrderPlacementFailed{OrderID: "ORD-1"}))
}
