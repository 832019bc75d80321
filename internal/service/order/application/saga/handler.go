package saga

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/domain"
	"shopflow/internal/service/order/domain/port"
)

// Compensation 记录一次已经生效、失败时需要撤销的副作用。
type Compensation struct {
	Action string
	Target string
	Undo   func(ctx context.Context) error
}

// CompensationReport 汇总一次补偿的执行结果。
type CompensationReport struct {
	Attempted int
	Failed    int
}

// OrderContext 在 Saga 流程中传递上下文数据。
type OrderContext struct {
	Ctx       context.Context
	Order     *domain.Order
	Items     []*domain.Product // 待预占的商品，按请求顺序
	Tracer    trace.Tracer
	Publisher port.OrderEventPublisher

	compensations []Compensation
	compLock      sync.Mutex
}

// AddCompensation 把补偿插到最前面，执行时后进先出。
func (c *OrderContext) AddCompensation(comp Compensation) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]Compensation{comp}, c.compensations...)
}

// PendingCompensations 返回尚未执行的补偿数量。
func (c *OrderContext) PendingCompensations() int {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	return len(c.compensations)
}

// TriggerCompensation 执行全部补偿。单个补偿失败只记录日志，不会中断其余补偿。
func (c *OrderContext) TriggerCompensation(ctx context.Context) CompensationReport {
	c.compLock.Lock()
	defer c.compLock.Unlock()

	report := CompensationReport{Attempted: len(c.compensations)}
	logger.Ctx(ctx).Info().Int("count", report.Attempted).Msg("Executing compensations")

	for _, comp := range c.compensations {
		compCtx, span := c.Tracer.Start(ctx, "saga.compensation."+comp.Action)
		span.SetAttributes(attribute.String("compensation.target", comp.Target))

		if err := comp.Undo(compCtx); err != nil {
			report.Failed++
			span.RecordError(err)
			span.SetStatus(codes.Error, "compensation failed")
			logger.Ctx(ctx).Error().Err(err).
				Str("action", comp.Action).
				Str("target", comp.Target).
				Msg("CRITICAL: compensation failed, manual intervention required")
		}
		span.End()
	}
	c.compensations = nil
	return report
}

// Handler 是 Saga 责任链中的一个步骤。
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}

// stepFailed 记录 span 状态并把错误包装成 PlacementError。
func stepFailed(span trace.Span, orderCtx *OrderContext, stage domain.Stage, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(stage)+" failed")
	return &domain.PlacementError{OrderID: orderCtx.Order.ID(), Stage: stage, Cause: err}
}
