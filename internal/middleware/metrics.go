package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"catalog-orders/internal/metrics"
)

// Metrics observa cada petición usando la ruta registrada como etiqueta,
// para no crear una serie por cada userId.
func Metrics(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
