package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GeneratorMetrics содержит метрики сессии генератора заказов.
type GeneratorMetrics struct {
	// Счётчики жизненного цикла
	ordersCreated   prometheus.Counter
	ordersShipped   prometheus.Counter
	ordersCancelled prometheus.Counter
	statusUpdates   prometheus.Counter

	// Неудачные доставки по направлениям
	dispatchFailures *prometheus.CounterVec

	// Длительность рассылки события во все sinks
	dispatchDuration prometheus.Histogram

	// Gauge активных заказов
	activeOrders prometheus.Gauge
}

// NewGeneratorMetrics создаёт метрики в default registry.
func NewGeneratorMetrics() *GeneratorMetrics {
	return NewGeneratorMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewGeneratorMetricsWithRegisterer создаёт метрики с указанным registerer (для тестов).
func NewGeneratorMetricsWithRegisterer(registerer prometheus.Registerer) *GeneratorMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &GeneratorMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "salesgen_orders_created_total",
			Help: "Total number of synthetic orders created",
		}),
		ordersShipped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "salesgen_orders_shipped_total",
			Help: "Total number of orders that reached the shipped status",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "salesgen_orders_cancelled_total",
			Help: "Total number of orders cancelled before shipping",
		}),
		statusUpdates: registerCounter(registerer, prometheus.CounterOpts{
			Name: "salesgen_status_updates_total",
			Help: "Total number of lifecycle transitions emitted",
		}),
		dispatchFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "salesgen_dispatch_failures_total",
			Help: "Total number of failed event deliveries grouped by sink",
		}, []string{"sink"}),
		dispatchDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "salesgen_dispatch_duration_seconds",
			Help:    "Duration of fanning one event out to all sinks",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		activeOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "salesgen_active_orders",
			Help: "Number of currently active (non-terminal) orders",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated учитывает новый заказ и рост числа активных.
func (m *GeneratorMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
	m.activeOrders.Inc()
}

// RecordStatusUpdate учитывает один эмитированный переход.
func (m *GeneratorMetrics) RecordStatusUpdate() {
	m.statusUpdates.Inc()
}

// RecordOrderShipped учитывает успешное завершение заказа.
func (m *GeneratorMetrics) RecordOrderShipped() {
	m.ordersShipped.Inc()
	m.activeOrders.Dec()
}

// RecordOrderCancelled учитывает отменённый заказ.
func (m *GeneratorMetrics) RecordOrderCancelled() {
	m.ordersCancelled.Inc()
	m.activeOrders.Dec()
}

// RecordDispatchFailure учитывает неудачную доставку в одно направление.
func (m *GeneratorMetrics) RecordDispatchFailure(sinkName string) {
	m.dispatchFailures.WithLabelValues(sinkName).Inc()
}

// RecordDispatchDuration записывает длительность рассылки одного события.
func (m *GeneratorMetrics) RecordDispatchDuration(duration time.Duration) {
	m.dispatchDuration.Observe(duration.Seconds())
}
