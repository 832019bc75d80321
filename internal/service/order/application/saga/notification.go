package saga

import (
	"go.opentelemetry.io/otel/attribute"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/domain"
)

// NotificationHandler 是链的最后一步，发布订单成功事件。
type NotificationHandler struct {
	NextHandler
}

func (h *NotificationHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Notification")
	defer span.End()

	if orderCtx.Publisher == nil {
		return h.executeNext(orderCtx)
	}

	span.SetAttributes(attribute.String("messaging.operation", "publish"))

	// 通知失败不属于关键路径，只记录警告，订单照常成功。
	if err := orderCtx.Publisher.PublishOrderPlaced(ctx, domain.NewOrderPlaced(orderCtx.Order)); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order", orderCtx.Order.ID()).Msg("WARN: Failed to publish order placed event")
		span.RecordError(err)
	}

	span.AddEvent("Order placed event published (or attempted)")
	return h.executeNext(orderCtx)
}
