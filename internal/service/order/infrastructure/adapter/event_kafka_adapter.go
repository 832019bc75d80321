package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/pkg/mq"
	"shopflow/internal/service/order/domain"
)

const (
	EventTypeHeader      = "x-event-type"
	EventTypeOrderPlaced = "order.placed"
	EventTypeOrderFailed = "order.placement_failed"
)

// KafkaEventPublisher 实现了 port.OrderEventPublisher，以客户 ID 作为分区 key。
type KafkaEventPublisher struct {
	writer mq.MessageWriter
}

func NewKafkaEventPublisher(writer mq.MessageWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

func (p *KafkaEventPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	return p.publish(ctx, EventTypeOrderPlaced, event.CustomerID, event)
}

func (p *KafkaEventPublisher) PublishOrderFailed(ctx context.Context, event domain.OrderPlacementFailed) error {
	return p.publish(ctx, EventTypeOrderFailed, event.CustomerID, event)
}

func (p *KafkaEventPublisher) publish(ctx context.Context, eventType, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrapf(err, "marshal %s event", eventType)
	}
	// mq.ProduceMessage 会自动注入追踪上下文
	return mq.ProduceMessage(ctx, p.writer, []byte(key), payload,
		kafka.Header{Key: EventTypeHeader, Value: []byte(eventType)})
}

// LogEventPublisher 在没有配置 Kafka 时使用，只把事件写进日志。
type LogEventPublisher struct{}

func (LogEventPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	logger.Ctx(ctx).Info().
		Str("event", EventTypeOrderPlaced).
		Str("order_id", event.OrderID).
		Str("customer_id", event.CustomerID).
		Str("total", event.Total).
		Strs("items", event.Items).
		Msg("Order event")
	return nil
}

func (LogEventPublisher) PublishOrderFailed(ctx context.Context, event domain.OrderPlacementFailed) error {
	logger.Ctx(ctx).Warn().
		Str("event", EventTypeOrderFailed).
		Str("order_id", event.OrderID).
		Str("customer_id", event.CustomerID).
		Str("stage", string(event.Stage)).
		Str("reason", event.Reason).
		Msg("Order event")
	return nil
}
