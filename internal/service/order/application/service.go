package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/application/saga"
	"shopflow/internal/service/order/domain"
	"shopflow/internal/service/order/domain/port"
)

var ErrInvalidRequest = errors.New("invalid order request")

// ProductCatalog 是商品目录的只读视图。
type ProductCatalog interface {
	Find(id string) (*domain.Product, error)
	List() []*domain.Product
}

// DeliveryMethods 按名字解析配送方式。
type DeliveryMethods interface {
	Lookup(name string) (domain.DeliveryMethod, error)
}

// PaymentFactory 根据请求创建支付策略。
type PaymentFactory func(req PaymentRequest) (domain.PaymentMethod, error)

// OrderApplicationService 只关注下单流程编排。
type OrderApplicationService struct {
	tracer            trace.Tracer
	publisher         port.OrderEventPublisher
	metrics           *Metrics
	newOrderID        func() string
	processingTimeout time.Duration

	catalog  ProductCatalog
	delivery DeliveryMethods
	payments PaymentFactory

	chain saga.Handler
}

type Option func(*OrderApplicationService)

func WithTracer(tracer trace.Tracer) Option {
	return func(s *OrderApplicationService) { s.tracer = tracer }
}

func WithPublisher(publisher port.OrderEventPublisher) Option {
	return func(s *OrderApplicationService) { s.publisher = publisher }
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *OrderApplicationService) { s.metrics = metrics }
}

// WithOrderIDGenerator 替换默认的 "ORD-" + UUID 生成方式。
func WithOrderIDGenerator(gen func() string) Option {
	return func(s *OrderApplicationService) { s.newOrderID = gen }
}

// WithProcessingTimeout 限制传给支付和配送策略的 context。补偿不受此限制。
func WithProcessingTimeout(d time.Duration) Option {
	return func(s *OrderApplicationService) { s.processingTimeout = d }
}

func WithCatalog(catalog ProductCatalog) Option {
	return func(s *OrderApplicationService) { s.catalog = catalog }
}

func WithDeliveryMethods(methods DeliveryMethods) Option {
	return func(s *OrderApplicationService) { s.delivery = methods }
}

func WithPaymentFactory(factory PaymentFactory) Option {
	return func(s *OrderApplicationService) { s.payments = factory }
}

func NewOrderApplicationService(opts ...Option) *OrderApplicationService {
	s := &OrderApplicationService{
		tracer:     noop.NewTracerProvider().Tracer("order-service"),
		metrics:    NewMetrics(nil),
		newOrderID: func() string { return "ORD-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.chain = buildChain()
	return s
}

// PlaceOrder 创建订单，依次预占库存、支付、发货。
// 任一步骤失败都会释放已预占的库存，并返回 *domain.PlacementError，部分完成的订单被丢弃。
func (s *OrderApplicationService) PlaceOrder(
	ctx context.Context,
	customer domain.Customer,
	items []*domain.Product,
	payment domain.PaymentMethod,
	delivery domain.DeliveryMethod,
) (*domain.Order, error) {
	start := time.Now()
	orderID := s.newOrderID()

	ctx, span := s.tracer.Start(ctx, "app.PlaceOrder", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("customer.id", customer.ID),
		attribute.Int("order.items", len(items)),
	))
	defer span.End()
	ctx = logger.WithOrder(ctx, orderID)

	order, err := domain.NewOrder(orderID, customer, payment, delivery)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create order entity")
		return nil, err
	}

	processingCtx := ctx
	if s.processingTimeout > 0 {
		var cancel context.CancelFunc
		processingCtx, cancel = context.WithTimeout(ctx, s.processingTimeout)
		defer cancel()
	}

	orderCtx := &saga.OrderContext{
		Ctx:       processingCtx,
		Order:     order,
		Items:     items,
		Tracer:    s.tracer,
		Publisher: s.publisher,
	}

	logger.Ctx(ctx).Info().Str("customer_id", customer.ID).Int("items", len(items)).Msg("Starting order placement")

	if err := s.chain.Handle(orderCtx); err != nil {
		var placementErr *domain.PlacementError
		if !errors.As(err, &placementErr) {
			placementErr = &domain.PlacementError{OrderID: orderID, Stage: domain.StageReservation, Cause: err}
		}

		span.RecordError(placementErr)
		span.SetStatus(codes.Error, "Order placement failed")
		span.SetAttributes(attribute.String("order.failed_stage", string(placementErr.Stage)))
		logger.Ctx(ctx).Error().Err(placementErr).Msg("Order placement failed. SAGA compensation triggered.")

		// 补偿使用外层 ctx，处理超时之后也必须执行。
		report := orderCtx.TriggerCompensation(ctx)
		if report.Failed > 0 {
			span.SetAttributes(attribute.Bool("critical.error", true))
		}
		s.metrics.observeFailure(start, placementErr.Stage, report)
		s.publishFailure(ctx, customer, placementErr)
		return nil, placementErr
	}

	s.metrics.observeSuccess(start)
	logger.Ctx(ctx).Info().Str("total", order.Total().String()).Msg("SUCCESS: order shipped")
	span.AddEvent("Order placed and shipped")
	return order, nil
}

func (s *OrderApplicationService) publishFailure(ctx context.Context, customer domain.Customer, placementErr *domain.PlacementError) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderFailed(ctx, domain.NewOrderPlacementFailed(customer, placementErr)); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("WARN: Failed to publish order failed event")
	}
}

// HandlePlaceOrderRequest 是暴露给接口层的入口。
// 请求中的客户、商品和策略在动库存之前全部解析完成。
func (s *OrderApplicationService) HandlePlaceOrderRequest(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	if s.catalog == nil || s.delivery == nil || s.payments == nil {
		return nil, errors.New("order service is not configured for requests")
	}

	customer, err := domain.NewCustomer(req.Customer.ID, req.Customer.Name, req.Customer.Email, req.Customer.Phone, req.Customer.Address)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRequest, "customer: %v", err)
	}

	items := make([]*domain.Product, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		p, err := s.catalog.Find(id)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRequest, "product: %v", err)
		}
		items = append(items, p)
	}

	payment, err := s.payments(req.Payment)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRequest, "payment: %v", err)
	}

	delivery, err := s.delivery.Lookup(req.Delivery)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRequest, "delivery: %v", err)
	}

	order, err := s.PlaceOrder(ctx, customer, items, payment, delivery)
	if err != nil {
		return nil, err
	}
	return ToPlaceOrderResponse(order), nil
}

// ListProducts 返回目录快照。
func (s *OrderApplicationService) ListProducts() []ProductView {
	if s.catalog == nil {
		return nil
	}
	products := s.catalog.List()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ToProductView(p))
	}
	return views
}

func buildChain() saga.Handler {
	chain := new(saga.ReservationHandler)
	chain.SetNext(new(saga.PaymentHandler)).
		SetNext(new(saga.DeliveryHandler)).
		SetNext(new(saga.NotificationHandler))
	return chain
}
