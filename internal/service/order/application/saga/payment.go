package saga

import (
	"go.opentelemetry.io/otel/attribute"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/domain"
)

type PaymentHandler struct {
	NextHandler
}

func (h *PaymentHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Payment")
	defer span.End()

	span.SetAttributes(attribute.String("order.total", orderCtx.Order.Total().String()))

	if err := orderCtx.Order.Pay(ctx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("Payment failed")
		return stepFailed(span, orderCtx, domain.StagePayment, err)
	}

	span.AddEvent("Order paid")
	return h.executeNext(orderCtx)
}
