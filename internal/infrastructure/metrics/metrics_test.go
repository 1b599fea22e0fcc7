package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/infrastructure/metrics"
)

func TestMetrics_CountersAndHistogram(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	m.BillingOperation("subscribe", "success")
	m.BillingOperation("subscribe", "success")
	m.BillingOperation("upgrade", "payment_failed")
	m.PaymentAuthorization("pix", "approved")
	m.GateRejection("expired")
	m.ObserveRequest("GET", "/api/billing", 200, 15*time.Millisecond)

	assert.Equal(t, 5, testutil.CollectAndCount(m.Registry(),
		"biznexa_billing_operations_total",
		"biznexa_payment_authorizations_total",
		"biznexa_gate_rejections_total",
		"biznexa_http_request_duration_seconds",
	))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `biznexa_billing_operations_total{operation="subscribe",result="success"} 2`)
	assert.Contains(t, string(body), `biznexa_gate_rejections_total{reason="expired"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.BillingOperation("cancel", "success")
		m.PaymentAuthorization("pix", "declined")
		m.GateRejection("disabled")
		m.ObserveRequest("GET", "/", 200, time.Second)
	})
}
