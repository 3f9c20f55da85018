package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swiftride_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swiftride_bookings_created_total",
			Help: "Total number of bookings created",
		},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_booking_transitions_total",
			Help: "Booking status transitions",
		},
		[]string{"from", "to"},
	)

	BookingExtensionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swiftride_booking_extensions_total",
			Help: "Total number of booking extensions",
		},
	)

	AvailabilityRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_availability_rejections_total",
			Help: "Booking requests rejected by the availability check",
		},
		[]string{"reason"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_payments_total",
			Help: "Payment results received from the gateway",
		},
		[]string{"result"},
	)

	EarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_wallet_earnings_total",
			Help: "Wallet earning ledger operations",
		},
		[]string{"action"},
	)

	WithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_wallet_withdrawals_total",
			Help: "Withdrawal requests by resulting status",
		},
		[]string{"status"},
	)

	HandoverStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_handover_steps_total",
			Help: "Handover scans and photo submissions",
		},
		[]string{"step"},
	)

	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_reviews_total",
			Help: "Booking reviews by rating",
		},
		[]string{"rating"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftride_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swiftride_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingCreated() {
	BookingsCreatedTotal.Inc()
}

func RecordBookingTransition(from, to string) {
	BookingTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordBookingExtension() {
	BookingExtensionsTotal.Inc()
}

func RecordAvailabilityRejection(reason string) {
	AvailabilityRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordPayment(result string) {
	PaymentsTotal.WithLabelValues(result).Inc()
}

func RecordEarning(action string) {
	EarningsTotal.WithLabelValues(action).Inc()
}

func RecordWithdrawal(status string) {
	WithdrawalsTotal.WithLabelValues(status).Inc()
}

func RecordHandoverStep(step string) {
	HandoverStepsTotal.WithLabelValues(step).Inc()
}

func RecordReview(rating string) {
	ReviewsTotal.WithLabelValues(rating).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
