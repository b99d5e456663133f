package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

const namespace = "haoshi"

// Collector query and transport metrics. It satisfies usecase.Observer.
type Collector struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	tableRows     *prometheus.GaugeVec
	deliveries    *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.queries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Answered messages by intent and lookup status",
	}, []string{"intent", "status"})

	c.queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Time spent classifying and rendering a reply",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"intent"})

	c.tableRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "table_rows",
		Help:      "Rows loaded per data table",
	}, []string{"table"})

	c.deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Outbound reply deliveries by transport and result",
	}, []string{"transport", "result"})

	c.rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Inbound messages dropped by the per-user limiter",
	}, []string{"transport"})

	c.registry.MustRegister(
		c.queries,
		c.queryDuration,
		c.tableRows,
		c.deliveries,
		c.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveQuery records one answered message
func (c *Collector) ObserveQuery(intent entity.Intent, status entity.LookupStatus, elapsed time.Duration) {
	c.queries.WithLabelValues(intent.String(), status.String()).Inc()
	c.queryDuration.WithLabelValues(intent.String()).Observe(elapsed.Seconds())
}

// SetTableRows publishes the row count of a loaded table
func (c *Collector) SetTableRows(table string, rows int) {
	c.tableRows.WithLabelValues(table).Set(float64(rows))
}

// ObserveDelivery counts a reply send attempt
func (c *Collector) ObserveDelivery(transport string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.deliveries.WithLabelValues(transport, result).Inc()
}

// ObserveRateLimited counts a dropped inbound message
func (c *Collector) ObserveRateLimited(transport string) {
	c.rateLimited.WithLabelValues(transport).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry for tests and extra collectors
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
