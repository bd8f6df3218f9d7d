package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog agrupa las métricas de negocio del catálogo y los pedidos.
// Un *Catalog nil es válido y no registra nada.
type Catalog struct {
	productsCreated   prometheus.Counter
	ordersCreated     prometheus.Counter
	orderTotal        prometheus.Histogram
	droppedOrderLines prometheus.Counter
}

// NewCatalog registra las métricas en registerer (o en el registry por defecto si es nil).
func NewCatalog(registerer prometheus.Registerer) *Catalog {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Catalog{
		productsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "catalog_products_created_total",
			Help: "Total number of products created",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "catalog_orders_created_total",
			Help: "Total number of orders created",
		}),
		orderTotal: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "catalog_order_total_amount",
			Help:    "Distribution of order totals",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		droppedOrderLines: registerCounter(registerer, prometheus.CounterOpts{
			Name: "catalog_order_lines_dropped_total",
			Help: "Order line items omitted because the referenced product no longer exists",
		}),
	}
}

func (m *Catalog) RecordProductCreated() {
	if m == nil {
		return
	}
	m.productsCreated.Inc()
}

// RecordOrderCreated cuenta el pedido y observa su total.
func (m *Catalog) RecordOrderCreated(total float64) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderTotal.Observe(total)
}

func (m *Catalog) RecordDroppedOrderLine() {
	if m == nil {
		return
	}
	m.droppedOrderLines.Inc()
}

// HTTP mide peticiones por método, ruta y status.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTP(registerer prometheus.Registerer) *HTTP {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &HTTP{
		requests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),
	}
}

// Observe registra una petición terminada.
func (m *HTTP) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
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

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
