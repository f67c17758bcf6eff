package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/ghala/internal/lib/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated("mobile")
		m.SimulationStarted()
		m.SimulationFinished("paid")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()
	m.OrderCreated("mobile")
	m.OrderCreated("card")
	m.SimulationStarted()
	m.SimulationFinished("paid")

	count, err := testutil.GatherAndCount(m.Registry(), "orders_created_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count, "one series per payment method")

	expected := `
# HELP payment_simulations_in_progress Number of payment simulations waiting for their outcome
# TYPE payment_simulations_in_progress gauge
payment_simulations_in_progress 0
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "payment_simulations_in_progress"))
}

func TestMetrics_MiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.New()
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", m.Handler())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/orders/order-1", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rr.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/orders/{id}",status="418"} 1`)
}
