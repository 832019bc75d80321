package saga

import (
	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/domain"
)

type DeliveryHandler struct {
	NextHandler
}

func (h *DeliveryHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Delivery")
	defer span.End()

	if err := orderCtx.Order.Ship(ctx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("Delivery failed")
		return stepFailed(span, orderCtx, domain.StageDelivery, err)
	}

	span.AddEvent("Order shipped")
	return h.executeNext(orderCtx)
}
