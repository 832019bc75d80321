package application

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shopflow/internal/service/order/application/saga"
	"shopflow/internal/service/order/domain"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics 记录下单结果。reg 为 nil 时指标不会注册，测试中很方便。
type Metrics struct {
	placements    *prometheus.CounterVec
	compensations *prometheus.CounterVec
	duration      prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		placements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopflow",
			Name:      "order_placements_total",
			Help:      "Order placement attempts by outcome and failing stage.",
		}, []string{"outcome", "stage"}),
		compensations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopflow",
			Name:      "stock_compensations_total",
			Help:      "Compensation actions executed after a failed placement.",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shopflow",
			Name:      "order_placement_duration_seconds",
			Help:      "Time spent placing an order, including rollback.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeSuccess(start time.Time) {
	m.placements.WithLabelValues(OutcomeSuccess, "").Inc()
	m.duration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeFailure(start time.Time, stage domain.Stage, report saga.CompensationReport) {
	m.placements.WithLabelValues(OutcomeFailure, string(stage)).Inc()
	m.compensations.WithLabelValues("ok").Add(float64(report.Attempted - report.Failed))
	m.compensations.WithLabelValues("failed").Add(float64(report.Failed))
	m.duration.Observe(time.Since(start).Seconds())
}
