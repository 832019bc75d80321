package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"shopflow/internal/pkg/bootstrap"
	"shopflow/internal/pkg/logger"
	"shopflow/internal/pkg/mq"
	"shopflow/internal/pkg/tracing"
	"shopflow/internal/service/order/interfaces"
)

const serviceName = "notification-service"

// notification-service 消费订单事件并通知客户，只暴露健康检查和指标端口。
func main() {
	cfg, err := bootstrap.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(serviceName, cfg.App.LogLevel)

	if len(cfg.Infra.Kafka.Brokers) == 0 {
		log.Fatal().Msg("KAFKA_BROKERS is required for the notification service")
	}

	tp, err := tracing.InitTracerProvider(serviceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topic, cfg.Infra.Kafka.GroupID)
	consumer := interfaces.NewOrderEventConsumer(reader, otel.Tracer(serviceName), nil)

	err = bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(mux *http.ServeMux) {
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			mux.Handle("/metrics", promhttp.Handler())
		},
		Background: []func(context.Context) error{consumer.Run},
		Closers: []func(context.Context) error{
			tp.Shutdown,
			func(context.Context) error { return reader.Close() },
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("notification service stopped with error")
	}
}
