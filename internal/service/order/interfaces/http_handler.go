package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"shopflow/internal/pkg/logger"
	"shopflow/internal/service/order/application"
	"shopflow/internal/service/order/domain"
)

const maxBodyBytes = 1 << 20

// OrderHandler 封装了 order 服务的 HTTP 处理器
type OrderHandler struct {
	service  *application.OrderApplicationService
	tracer   trace.Tracer
	gatherer prometheus.Gatherer
}

type HandlerOption func(*OrderHandler)

// WithGatherer 让 /metrics 暴露指定的 registry，默认使用全局 registry。
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(h *OrderHandler) { h.gatherer = g }
}

func WithHandlerTracer(tracer trace.Tracer) HandlerOption {
	return func(h *OrderHandler) { h.tracer = tracer }
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(service *application.OrderApplicationService, opts ...HandlerOption) *OrderHandler {
	h := &OrderHandler{
		service:  service,
		tracer:   otel.Tracer("order-service"),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /products", h.listProductsHandler)
	mux.HandleFunc("POST /orders", h.placeOrderHandler)
}

func (h *OrderHandler) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListProducts())
}

func (h *OrderHandler) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.PlaceOrder", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	var req application.PlaceOrderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		span.RecordError(err)
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decode request"))
		return
	}

	span.SetAttributes(
		attribute.String("customer.id", req.Customer.ID),
		attribute.Int("order.items", len(req.ProductIDs)),
		attribute.String("order.delivery", req.Delivery),
		attribute.String("order.payment", req.Payment.Method),
	)

	resp, err := h.service.HandlePlaceOrderRequest(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place order failed")

		var placementErr *domain.PlacementError
		switch {
		case errors.Is(err, application.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err)
		case errors.As(err, &placementErr):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			logger.Ctx(ctx).Error().Err(err).Msg("Unexpected error placing order")
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
