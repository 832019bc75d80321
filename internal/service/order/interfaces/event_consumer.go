package interfaces

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/pkg/mq"
	"shopflow/internal/service/order/domain"
	"shopflow/internal/service/order/infrastructure/adapter"
)

var ErrUnknownEventType = errors.New("unknown event type")

// MessageReader 是 kafka.Reader 的子集。
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Notification 是发给客户的一条通知。
type Notification struct {
	CustomerID string
	Email      string
	OrderID    string
	Message    string
}

// OrderEventConsumer 监听订单事件并为客户生成通知。
type OrderEventConsumer struct {
	reader     MessageReader
	tracer     trace.Tracer
	retryDelay time.Duration
	sent       func(ctx context.Context, n Notification)
}

// NewOrderEventConsumer 创建消费者，sink 为 nil 时通知只写日志。
func NewOrderEventConsumer(reader MessageReader, tracer trace.Tracer, sink func(ctx context.Context, n Notification)) *OrderEventConsumer {
	if sink == nil {
		sink = logNotification
	}
	return &OrderEventConsumer{reader: reader, tracer: tracer, retryDelay: time.Second, sent: sink}
}

// Run 持续消费直到 ctx 结束。无法解析的消息记录后跳过，offset 照常提交。
func (c *OrderEventConsumer) Run(ctx context.Context) error {
	logger.Ctx(ctx).Info().Msg("Order event consumer started")
	for {
		// 使用 FetchMessage 而不是 ReadMessage，以便手动提交 offset
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Ctx(ctx).Info().Msg("Order event consumer shutting down")
				return nil
			}
			logger.Ctx(ctx).Error().Err(err).Msg("Could not fetch message, retrying")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		if err := c.HandleMessage(ctx, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("topic", msg.Topic).
				Int64("offset", msg.Offset).
				Msg("Skipping undeliverable order event")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("Failed to commit message")
		}
	}
}

// HandleMessage 处理单条消息，追踪上下文从消息头恢复。
func (c *OrderEventConsumer) HandleMessage(ctx context.Context, msg kafka.Message) error {
	ctx = mq.ExtractTraceContext(ctx, msg.Headers)
	eventType := mq.HeaderValue(msg.Headers, adapter.EventTypeHeader)

	ctx, span := c.tracer.Start(ctx, "notification.ProcessOrderEvent",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.String("messaging.kafka.message.key", string(msg.Key)),
			attribute.String("event.type", eventType),
		))
	defer span.End()

	n, err := RenderNotification(eventType, msg.Value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render notification failed")
		return err
	}

	c.sent(ctx, n)
	span.AddEvent("Notification sent")
	return nil
}

// RenderNotification 把订单事件转换为客户通知。
func RenderNotification(eventType string, payload []byte) (Notification, error) {
	switch eventType {
	case adapter.EventTypeOrderPlaced:
		var e domain.OrderPlaced
		if err := json.Unmarshal(payload, &e); err != nil {
			return Notification{}, errors.Wrap(err, "decode order placed event")
		}
		return Notification{
			CustomerID: e.CustomerID,
			Email:      e.Email,
			OrderID:    e.OrderID,
			Message:    fmt.Sprintf("Your order %s (%d items, total %s) is on its way.", e.OrderID, len(e.Items), e.Total),
		}, nil

	case adapter.EventTypeOrderFailed:
		var e domain.OrderPlacementFailed
		if err := json.Unmarshal(payload, &e); err != nil {
			return Notification{}, errors.Wrap(err, "decode order failed event")
		}
		return Notification{
			CustomerID: e.CustomerID,
			Email:      e.Email,
			OrderID:    e.OrderID,
			Message:    fmt.Sprintf("We could not complete order %s at the %s step: %s. Reserved items were released.", e.OrderID, e.Stage, e.Reason),
		}, nil

	default:
		return Notification{}, errors.Wrapf(ErrUnknownEventType, "%q", eventType)
	}
}

func logNotification(ctx context.Context, n Notification) {
	logger.Ctx(ctx).Info().
		Str("customer_id", n.CustomerID).
		Str("email", n.Email).
		Str("order_id", n.OrderID).
		Msg(n.Message)
}
