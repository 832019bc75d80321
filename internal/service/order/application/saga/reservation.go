package saga

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/domain"
)

const ActionReleaseStock = "ReleaseStock"

// ReservationHandler 依次预占每件商品，每次成功后登记一条释放库存的补偿。
type ReservationHandler struct {
	NextHandler
}

func (h *ReservationHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ReserveStock")
	defer span.End()

	span.SetAttributes(attribute.Int("items.requested", len(orderCtx.Items)))

	for _, p := range orderCtx.Items {
		if err := orderCtx.Order.Reserve(p); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("Stock reservation failed")
			return stepFailed(span, orderCtx, domain.StageReservation, err)
		}

		product := p
		orderCtx.AddCompensation(Compensation{
			Action: ActionReleaseStock,
			Target: product.ID,
			Undo: func(context.Context) error {
				return product.AdjustStock(1)
			},
		})
	}

	span.AddEvent("All items reserved")
	return h.executeNext(orderCtx)
}
