package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per registered route. Requests
// that match no route share one label so scanners cannot blow up cardinality.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			method := c.Request().Method
			code := c.Response().Status
			if err != nil && !c.Response().Committed {
				code = statusOf(err)
			}

			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
