package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/api/v1/job/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/job/:id", "200")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/job/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Fatalf("expected 2 requests on the route pattern, got %v", got)
	}
}

func TestMetrics_UsesErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Fatalf("expected one 418 sample, got %v", got)
	}
}
