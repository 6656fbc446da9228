package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/observability"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName  string
	version      string
	dependencies []Pinger
	metrics      *observability.Metrics
}

// NewHealthHandler returns a new handler instance. Only the configured
// backing services are passed as dependencies.
func NewHealthHandler(serviceName, version string, metrics *observability.Metrics, dependencies ...Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, metrics: metrics, dependencies: dependencies}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	for _, dep := range h.dependencies {
		if err := dep.Ping(ctx); err != nil {
			depStatus[dep.Name()] = err.Error()
			ready = false
		} else {
			depStatus[dep.Name()] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// Metrics exposes the request and error counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	if h.metrics == nil {
		return c.JSON(fiber.Map{"data": observability.Snapshot{}})
	}
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
