package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/evrecharge/evrecharge-api/internal/observability/telemetry"
)

// Metrics counts requests by method, matched route and final status
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}

		telemetry.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}
