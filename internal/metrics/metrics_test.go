package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/bookings", "201", 0.1)
	RecordHTTPRequest("POST", "/bookings", "201", 0.2)
	RecordHTTPRequest("POST", "/bookings", "409", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/bookings", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/bookings", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordBookingTransition(t *testing.T) {
	BookingTransitionsTotal.Reset()

	RecordBookingTransition("pending", "confirmed")
	RecordBookingTransition("pending", "confirmed")
	RecordBookingTransition("confirmed", "ongoing")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("confirmed", "ongoing")))
}

func TestRecordBookingCounters(t *testing.T) {
	before := testutil.ToFloat64(BookingsCreatedTotal)
	RecordBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(BookingsCreatedTotal))

	before = testutil.ToFloat64(BookingExtensionsTotal)
	RecordBookingExtension()
	assert.Equal(t, before+1, testutil.ToFloat64(BookingExtensionsTotal))
}

func TestRecordLedgerMetrics(t *testing.T) {
	EarningsTotal.Reset()
	WithdrawalsTotal.Reset()
	PaymentsTotal.Reset()

	RecordEarning("created")
	RecordEarning("released")
	RecordWithdrawal("pending")
	RecordPayment("success")
	RecordPayment("duplicate")

	assert.Equal(t, float64(1), testutil.ToFloat64(EarningsTotal.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EarningsTotal.WithLabelValues("released")))
	assert.Equal(t, float64(1), testutil.ToFloat64(WithdrawalsTotal.WithLabelValues("pending")))
	assert.Equal(t, 2, testutil.CollectAndCount(PaymentsTotal))
}

func TestRecordAvailabilityHandoverAndReviews(t *testing.T) {
	AvailabilityRejectionsTotal.Reset()
	HandoverStepsTotal.Reset()
	ReviewsTotal.Reset()

	RecordAvailabilityRejection("overlap")
	RecordHandoverStep("pickup")
	RecordReview("5")

	assert.Equal(t, float64(1), testutil.ToFloat64(AvailabilityRejectionsTotal.WithLabelValues("overlap")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HandoverStepsTotal.WithLabelValues("pickup")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ReviewsTotal.WithLabelValues("5")))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("booking_confirmed", "success")
	RecordEmail("booking_confirmed", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmed", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmed", "failed")))
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(EmailQueueLength))
}
