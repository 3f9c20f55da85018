package booking

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PaymentUnpaid     = "unpaid"
	PaymentProcessing = "processing"
	PaymentPaid       = "paid"
	PaymentFailed     = "failed"
)

const (
	HandoverPending       = "pending"
	HandoverPickupScanned = "pickup_scanned"
	HandoverActive        = "active"
	HandoverReturnScanned = "return_scanned"
	HandoverCompleted     = "completed"
)

type Booking struct {
	ID                 int                 `db:"id" json:"id"`
	CarID              int                 `db:"car_id" json:"car_id"`
	CustomerID         int                 `db:"customer_id" json:"customer_id"`
	OwnerID            int                 `db:"owner_id" json:"owner_id"`
	Start              time.Time           `db:"start_at" json:"start"`
	End                time.Time           `db:"end_at" json:"end"`
	DurationHours      int                 `db:"duration_hours" json:"duration_hours"`
	HourlyRate         decimal.Decimal     `db:"hourly_rate" json:"hourly_rate" swaggertype:"string"`
	TotalPrice         decimal.Decimal     `db:"total_price" json:"total_price" swaggertype:"string"`
	Currency           string              `db:"currency" json:"currency"`
	Status             string              `db:"status" json:"status"`
	PaymentStatus      string              `db:"payment_status" json:"payment_status"`
	PaymentReference   *string             `db:"payment_reference" json:"payment_reference,omitempty"`
	AmountPaid         decimal.Decimal     `db:"amount_paid" json:"amount_paid" swaggertype:"string"`
	PaymentDue         decimal.NullDecimal `db:"payment_due" json:"payment_due" swaggertype:"string"`
	CommissionPercent  decimal.NullDecimal `db:"commission_percent" json:"commission_percent" swaggertype:"string"`
	CommissionAmount   decimal.NullDecimal `db:"commission_amount" json:"commission_amount" swaggertype:"string"`
	OwnerEarningAmount decimal.NullDecimal `db:"owner_earning_amount" json:"owner_earning_amount" swaggertype:"string"`
	InvoiceNumber      string              `db:"invoice_number" json:"invoice_number"`
	InvoiceDocument    *string             `db:"invoice_document" json:"invoice_document,omitempty"`
	HandoverSecret     *string             `db:"handover_secret" json:"-"`
	HandoverSecretHash *string             `db:"handover_secret_hash" json:"-"`
	HandoverStatus     string              `db:"handover_status" json:"handover_status"`
	PickupPhotos       pq.StringArray      `db:"pickup_photos" json:"pickup_photos" swaggertype:"array,string"`
	ReturnPhotos       pq.StringArray      `db:"return_photos" json:"return_photos" swaggertype:"array,string"`
	CreatedAt          time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `db:"updated_at" json:"updated_at"`
}

func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// Outstanding is the part of the total price not captured yet.
func (b *Booking) Outstanding() decimal.Decimal {
	return b.TotalPrice.Sub(b.AmountPaid)
}

// StatusChange is one entry of a booking's append-only status history.
// ActorID is nil for system transitions.
type StatusChange struct {
	ID        int64     `db:"id" json:"id"`
	BookingID int       `db:"booking_id" json:"booking_id"`
	Status    string    `db:"status" json:"status"`
	ActorID   *int      `db:"actor_id" json:"actor_id,omitempty"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Extension struct {
	ID          int64           `db:"id" json:"id"`
	BookingID   int             `db:"booking_id" json:"booking_id"`
	OldEnd      time.Time       `db:"old_end_at" json:"old_end"`
	NewEnd      time.Time       `db:"new_end_at" json:"new_end"`
	ExtraHours  int             `db:"extra_hours" json:"extra_hours"`
	ExtraAmount decimal.Decimal `db:"extra_amount" json:"extra_amount" swaggertype:"string"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Detail is a booking with its history. HandoverSecret is only filled in
// for the booking's customer, who presents it to the host.
type Detail struct {
	Booking
	HandoverSecret string         `json:"handover_secret,omitempty"`
	History        []StatusChange `json:"history"`
	Extensions     []Extension    `json:"extensions"`
}

type CreateBookingRequest struct {
	CarID int       `json:"car_id" binding:"required,min=1"`
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed ongoing completed cancelled"`
	Note   string `json:"note" binding:"max=500"`
}

type ExtendRequest struct {
	NewEnd time.Time `json:"new_end" binding:"required"`
}

type CancelRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// PaymentResult is a verified gateway outcome for one booking. Amount is
// the amount the gateway reports as charged.
type PaymentResult struct {
	BookingID   int
	Success     bool
	ProviderRef string
	Amount      decimal.Decimal
}

// PaymentOutcome reports how a result was applied. AmountMismatch is set
// when a successful result did not match the open checkout and was recorded
// as a failure.
type PaymentOutcome struct {
	Booking        *Booking
	Duplicate      bool
	AmountMismatch bool
}
