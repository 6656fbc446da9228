package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdentityFunc extracts the caller id from a request, if any.
type IdentityFunc func(c *fiber.Ctx) string

// RequestLogger logs every request and feeds the request counters. Counters
// are keyed by route pattern so that item ids do not explode cardinality.
func RequestLogger(logger *zap.Logger, metrics *Metrics, identity IdentityFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		route := c.Route().Path
		metrics.RecordRequest(route, c.Method(), status, latency)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if identity != nil {
			if id := identity(c); id != "" {
				fields = append(fields, zap.String("principal_id", id))
			}
		}
		logger.Info("request", fields...)
		return err
	}
}
