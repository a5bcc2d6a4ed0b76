package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type BusinessMetrics struct {
	QuotesTotal               *prometheus.CounterVec
	PaymentVerificationsTotal *prometheus.CounterVec
	ApplicationsTotal         *prometheus.CounterVec
	AccountCreationsTotal     *prometheus.CounterVec
}

var Business = BusinessMetrics{
	QuotesTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_portal_savings_quotes_total",
			Help: "Savings quotes served, split by whether the value came from the session plan.",
		},
		[]string{"source"},
	),
	PaymentVerificationsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_portal_payment_verifications_total",
			Help: "Payment message verification attempts by result.",
		},
		[]string{"result"},
	),
	ApplicationsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_portal_application_submissions_total",
			Help: "Loan application submissions by outcome.",
		},
		[]string{"status"},
	),
	AccountCreationsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_portal_account_creations_total",
			Help: "Account creation calls by outcome.",
		},
		[]string{"status"},
	),
}

func RecordQuote(memoized bool) {
	source := "computed"
	if memoized {
		source = "memoized"
	}
	Business.QuotesTotal.WithLabelValues(source).Inc()
}

func RecordVerification(verified bool) {
	result := "failed"
	if verified {
		result = "verified"
	}
	Business.PaymentVerificationsTotal.WithLabelValues(result).Inc()
}

func RecordSubmission(status string) {
	Business.ApplicationsTotal.WithLabelValues(status).Inc()
}

func RecordAccountCreation(status string) {
	Business.AccountCreationsTotal.WithLabelValues(status).Inc()
}
