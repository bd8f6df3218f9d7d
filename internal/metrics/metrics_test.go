package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCatalog_Records(t *testing.T) {
	m := NewCatalog(prometheus.NewRegistry())

	m.RecordProductCreated()
	m.RecordProductCreated()
	m.RecordOrderCreated(250)
	m.RecordDroppedOrderLine()

	assert.Equal(t, 2.0, counterValue(t, m.productsCreated))
	assert.Equal(t, 1.0, counterValue(t, m.ordersCreated))
	assert.Equal(t, 1.0, counterValue(t, m.droppedOrderLines))

	var h dto.Metric
	require.NoError(t, m.orderTotal.Write(&h))
	assert.EqualValues(t, 1, h.GetHistogram().GetSampleCount())
	assert.Equal(t, 250.0, h.GetHistogram().GetSampleSum())
}

func TestCatalog_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewCatalog(reg)
	second := NewCatalog(reg)

	first.RecordProductCreated()
	assert.Equal(t, 1.0, counterValue(t, second.productsCreated))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var c *Catalog
	var h *HTTP
	assert.NotPanics(t, func() {
		c.RecordProductCreated()
		c.RecordOrderCreated(1)
		c.RecordDroppedOrderLine()
		h.Observe("GET", "/products", 200, time.Millisecond)
	})
}

func TestHTTP_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTP(reg)

	m.Observe("GET", "/products", 200, 10*time.Millisecond)
	m.Observe("GET", "/products", 200, 20*time.Millisecond)
	m.Observe("POST", "/orders", 404, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m.requests.WithLabelValues("GET", "/products", "200")))
	assert.Equal(t, 1.0, counterValue(t, m.requests.WithLabelValues("POST", "/orders", "404")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{"http_requests_total", "http_request_duration_seconds"}, names)
}
