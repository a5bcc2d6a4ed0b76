package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordVerification(t *testing.T) {
	Business.PaymentVerificationsTotal.Reset()

	RecordVerification(true)
	RecordVerification(false)
	RecordVerification(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(Business.PaymentVerificationsTotal.WithLabelValues("verified")))
	assert.Equal(t, 2.0, testutil.ToFloat64(Business.PaymentVerificationsTotal.WithLabelValues("failed")))
}

func TestRecordQuote(t *testing.T) {
	Business.QuotesTotal.Reset()

	RecordQuote(false)
	RecordQuote(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(Business.QuotesTotal.WithLabelValues("computed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(Business.QuotesTotal.WithLabelValues("memoized")))
}

func TestRecordSubmissionAndAccountCreation(t *testing.T) {
	Business.ApplicationsTotal.Reset()
	Business.AccountCreationsTotal.Reset()

	RecordSubmission("success")
	RecordAccountCreation("failure")

	assert.Equal(t, 1.0, testutil.ToFloat64(Business.ApplicationsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(Business.AccountCreationsTotal.WithLabelValues("failure")))
}
