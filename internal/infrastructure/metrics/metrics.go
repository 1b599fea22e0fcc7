// Package metrics contadores e histogramas Prometheus de la API, sobre un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biznexa/biznexa-api/internal/application/billing"
)

const namespace = "biznexa"

var _ billing.Metrics = (*Metrics)(nil)

// Metrics recorder de la aplicación. Un *Metrics nil descarta todo.
type Metrics struct {
	registry        *prometheus.Registry
	billingOps      *prometheus.CounterVec
	paymentAuths    *prometheus.CounterVec
	gateRejections  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New crea el registro con los collectors de proceso y de Go más los de la app.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry permite a los tests usar un registro dedicado sin collectors de runtime.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		billingOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "operations_total",
			Help:      "Operaciones del ciclo de suscripción por resultado",
		}, []string{"operation", "result"}),
		paymentAuths: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "authorizations_total",
			Help:      "Autorizaciones de pago por método y resultado",
		}, []string{"method", "result"}),
		gateRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "rejections_total",
			Help:      "Requests rechazados por el gate de suscripción",
		}, []string{"reason"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latencia de los requests HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// BillingOperation cuenta una operación de billing.
func (m *Metrics) BillingOperation(operation, result string) {
	if m == nil {
		return
	}
	m.billingOps.WithLabelValues(operation, result).Inc()
}

// PaymentAuthorization cuenta una autorización de pago.
func (m *Metrics) PaymentAuthorization(method, result string) {
	if m == nil {
		return
	}
	m.paymentAuths.WithLabelValues(method, result).Inc()
}

// GateRejection cuenta un rechazo del gate (disabled, expired).
func (m *Metrics) GateRejection(reason string) {
	if m == nil {
		return
	}
	m.gateRejections.WithLabelValues(reason).Inc()
}

// ObserveRequest registra la latencia de un request. route es el patrón, no la ruta concreta.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry registro subyacente (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
