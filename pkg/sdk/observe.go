package jobreco

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const metricsSubsystem = "sdk"

// clientMetrics are the collectors exported through WithPrometheus.
type clientMetrics struct {
	calls     *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	returned  prometheus.Histogram
	documents prometheus.Gauge
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	var (
		m   clientMetrics
		err error
	)
	if m.calls, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobreco",
		Subsystem: metricsSubsystem,
		Name:      "operations_total",
		Help:      "Client calls by operation and status.",
	}, []string{"operation", "status"})); err != nil {
		return nil, err
	}
	if m.latency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jobreco",
		Subsystem: metricsSubsystem,
		Name:      "operation_duration_seconds",
		Help:      "Client call latency in seconds.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"operation"})); err != nil {
		return nil, err
	}
	if m.returned, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jobreco",
		Subsystem: metricsSubsystem,
		Name:      "recommend_matches",
		Help:      "Matches returned per Recommend call.",
		Buckets:   []float64{0, 1, 3, 5, 10, 20},
	})); err != nil {
		return nil, err
	}
	if m.documents, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jobreco",
		Subsystem: metricsSubsystem,
		Name:      "corpus_documents",
		Help:      "Job records in the corpus loaded by the client.",
	})); err != nil {
		return nil, err
	}
	return &m, nil
}

// register adds c to reg. When an equal collector is already registered,
// for example by another Client on the same registry, that one is returned.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("jobreco: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("jobreco: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer records client calls. A nil observer records nothing.
type observer struct {
	logger  *zap.Logger
	metrics *clientMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// call is one in-flight client operation.
type call struct {
	o      *observer
	op     string
	start  time.Time
	fields []zap.Field
}

func (o *observer) begin(op string, fields ...zap.Field) *call {
	return &call{o: o, op: op, start: time.Now(), fields: fields}
}

// end records the outcome. fields are appended to those given to begin.
func (c *call) end(err error, fields ...zap.Field) {
	if c.o == nil {
		return
	}
	elapsed := time.Since(c.start)
	if m := c.o.metrics; m != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.calls.WithLabelValues(c.op, status).Inc()
		m.latency.WithLabelValues(c.op).Observe(elapsed.Seconds())
	}
	if c.o.logger == nil {
		return
	}

	all := make([]zap.Field, 0, len(c.fields)+len(fields)+3)
	all = append(all, zap.String("op", c.op), zap.Duration("duration", elapsed))
	all = append(all, c.fields...)
	all = append(all, fields...)
	if err != nil {
		c.o.logger.Warn("jobreco call failed", append(all, zap.Error(err))...)
		return
	}
	c.o.logger.Debug("jobreco call", all...)
}

func (o *observer) matches(n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.returned.Observe(float64(n))
}

func (o *observer) corpusSize(n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.documents.Set(float64(n))
}
