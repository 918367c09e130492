package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/catering/internal/domain/model"
)

func TestCountersIncrement(t *testing.T) {
	m := New()

	m.OrderCreated()
	m.OrderCreated()
	m.StatusChanged(model.OrderStatusAccepted)
	m.SideEffectFailed("analytics")
	m.ObserveRequest("/api/orders", http.StatusCreated, 12*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ACCEPTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("analytics")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/orders", "201")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.StatusChanged(model.OrderStatusCancelled)
		m.SideEffectFailed("notification")
		m.ObserveRequest("/", http.StatusOK, time.Millisecond)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.OrderCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "catering_orders_created_total 1"))
	assert.NotNil(t, m.Registry())
}

func TestModuleProvidesIndependentRegistries(t *testing.T) {
	for i := 0; i < 2; i++ {
		var m *Metrics
		app := fxtest.New(t, Module, fx.Populate(&m))
		app.RequireStart()
		require.NotNil(t, m)
		app.RequireStop()
	}
}
