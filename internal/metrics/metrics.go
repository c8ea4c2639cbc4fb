package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters and histograms for the credential workflow. Registered once at
// package init; handlers and services record through the helpers below.
var (
	credentialTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carelink_credential_transitions_total",
		Help: "Total credential status transitions by kind and target status",
	}, []string{"kind", "status"})

	paymentInitiations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carelink_payment_initiations_total",
		Help: "Total payment initiations by outcome",
	}, []string{"outcome"})

	mailSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carelink_mail_sends_total",
		Help: "Total notification mail sends by outcome",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "carelink_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by method and status",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "status"})
)

// CredentialTransition records a status transition on a credential.
func CredentialTransition(kind, status string) {
	credentialTransitions.WithLabelValues(kind, status).Inc()
}

// PaymentInitiated records a payment initiation outcome ("ok" or "failed").
func PaymentInitiated(outcome string) {
	paymentInitiations.WithLabelValues(outcome).Inc()
}

// MailSent records a notification send outcome ("ok" or "failed").
func MailSent(outcome string) {
	mailSends.WithLabelValues(outcome).Inc()
}

// ObserveRequest records the duration of a handled HTTP request.
func ObserveRequest(method, status string, start time.Time) {
	requestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
}
