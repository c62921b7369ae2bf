// Package metrics exposes Prometheus counters for authentication outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder is what the services report to.
type Recorder interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
	RecordRotation(outcome string)
	RecordSessionIssued()
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	registrations  *prometheus.CounterVec
	logins         *prometheus.CounterVec
	rotations      *prometheus.CounterVec
	sessionsIssued prometheus.Counter
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Sign-up attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Credential checks by outcome.",
		}, []string{"outcome"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_refresh_rotations_total",
			Help: "Refresh token rotations by outcome.",
		}, []string{"outcome"}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_sessions_issued_total",
			Help: "Access/refresh cookie pairs issued.",
		}),
	}

	reg.MustRegister(c.registrations, c.logins, c.rotations, c.sessionsIssued)
	return c
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRotation(outcome string) {
	c.rotations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordSessionIssued() {
	c.sessionsIssued.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRegistration(string) {}
func (Nop) RecordLogin(string)        {}
func (Nop) RecordRotation(string)     {}
func (Nop) RecordSessionIssued()      {}
