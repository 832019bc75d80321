package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"shopflow/internal/pkg/bootstrap"
	"shopflow/internal/pkg/logger"
	"shopflow/internal/pkg/mq"
	"shopflow/internal/pkg/tracing"
	"shopflow/internal/service/order/application"
	"shopflow/internal/service/order/domain"
	"shopflow/internal/service/order/domain/port"
	"shopflow/internal/service/order/infrastructure"
	"shopflow/internal/service/order/infrastructure/adapter"
	"shopflow/internal/service/order/interfaces"
)

// main 是应用的组装根，只负责创建依赖并启动服务。
func main() {
	cfg, err := bootstrap.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Name, cfg.App.LogLevel)

	tp, err := tracing.InitTracerProvider(cfg.App.Name, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}
	tracer := otel.Tracer(cfg.App.Name)

	// 目录只在这里创建一次，之后显式传递
	catalog, err := infrastructure.NewCatalogFromConfig(cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build catalog")
	}
	deliveries, err := adapter.NewDeliveryRegistry(cfg.Delivery)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build delivery methods")
	}

	closers := []func(context.Context) error{tp.Shutdown}

	var publisher port.OrderEventPublisher = adapter.LogEventPublisher{}
	if brokers := cfg.Infra.Kafka.Brokers; len(brokers) > 0 {
		writer := mq.NewKafkaWriter(brokers, cfg.Infra.Kafka.Topic)
		publisher = adapter.NewKafkaEventPublisher(writer)
		closers = append(closers, func(context.Context) error { return writer.Close() })
		log.Info().Strs("brokers", brokers).Str("topic", cfg.Infra.Kafka.Topic).Msg("Publishing order events to Kafka")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := application.NewOrderApplicationService(
		application.WithTracer(tracer),
		application.WithPublisher(publisher),
		application.WithMetrics(application.NewMetrics(reg)),
		application.WithProcessingTimeout(cfg.App.RequestTimeout),
		application.WithCatalog(catalog),
		application.WithDeliveryMethods(deliveries),
		application.WithPaymentFactory(func(req application.PaymentRequest) (domain.PaymentMethod, error) {
			return adapter.NewPaymentMethod(req.Method, req.CardNumber, req.Expiry, req.BankName, req.AccountNumber)
		}),
	)
	handler := interfaces.NewOrderHandler(svc, interfaces.WithGatherer(reg), interfaces.WithHandlerTracer(tracer))

	log.Info().Int("products", len(catalog.List())).Strs("delivery", deliveries.Names()).Msg("Order service ready")

	err = bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      cfg.App.Name,
		Port:             cfg.App.Port,
		RegisterHandlers: func(mux *http.ServeMux) { handler.RegisterRoutes(mux) },
		Closers:          closers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("order service stopped with error")
	}
}
