// internal/httpapi/middleware.go
package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmwatch/internal/metrics"
)

// metricsMiddleware counts every request by method, route and status.
func metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Method(), path, strconv.Itoa(c.Response().StatusCode()),
		).Inc()
		return err
	}
}

// metricsHandler serves the default Prometheus registry.
func metricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
