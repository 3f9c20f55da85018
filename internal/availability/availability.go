// Package availability decides whether a car can be booked for a window.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
)

type Reason string

const (
	NotApproved      Reason = "not_approved"
	InsuranceExpired Reason = "insurance_expired"
	NotAvailable     Reason = "not_available"
	DayNotAllowed    Reason = "day_not_allowed"
	TimeOutOfWindow  Reason = "time_out_of_window"
	Overlap          Reason = "overlap"
)

var reasonMessages = map[Reason]string{
	NotApproved:      "car is not approved for booking",
	InsuranceExpired: "car insurance expires before the booking ends",
	NotAvailable:     "car is currently not available",
	DayNotAllowed:    "car is not available on the requested day",
	TimeOutOfWindow:  "requested time is outside the car's operating hours",
	Overlap:          "car is already booked for the requested time",
}

// Rejection is returned when a window is not bookable. It unwraps to a
// Conflict so transports can map it without knowing the reason set.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string {
	return reasonMessages[r.Reason]
}

func (r *Rejection) Unwrap() error {
	return apperr.Conflict(string(r.Reason), reasonMessages[r.Reason])
}

func reject(reason Reason) error {
	return &Rejection{Reason: reason}
}

type Window struct {
	Start time.Time `db:"start_at" json:"start"`
	End   time.Time `db:"end_at" json:"end"`
}

// Overlaps uses inclusive bounds: windows that only touch do overlap.
func (w Window) Overlaps(o Window) bool {
	return !o.Start.After(w.End) && !o.End.Before(w.Start)
}

// Check runs the bookability rules in order and stops at the first failure.
// active holds the windows of the car's pending, confirmed and ongoing bookings.
func Check(c *car.Car, w Window, active []Window) error {
	if c.ApprovalStatus != car.ApprovalApproved {
		return reject(NotApproved)
	}
	if c.InsuranceExpiry != nil && c.InsuranceExpiry.Before(w.End) {
		return reject(InsuranceExpired)
	}
	if !c.IsAvailable {
		return reject(NotAvailable)
	}

	loc := c.TimeLocation()
	start, end := w.Start.In(loc), w.End.In(loc)

	if !c.AllowsWeekday(start.Weekday()) || !c.AllowsWeekday(end.Weekday()) {
		return reject(DayNotAllowed)
	}

	open, err := car.ParseClock(c.StartTime)
	if err != nil {
		return fmt.Errorf("car %d: %w", c.ID, err)
	}
	closing, err := car.ParseClock(c.EndTime)
	if err != nil {
		return fmt.Errorf("car %d: %w", c.ID, err)
	}
	if !withinDay(start, open, closing) || !withinDay(end, open, closing) {
		return reject(TimeOutOfWindow)
	}

	for _, a := range active {
		if a.Overlaps(w) {
			return reject(Overlap)
		}
	}
	return nil
}

// withinDay compares at minute resolution; seconds inside the closing
// minute still count as inside.
func withinDay(t time.Time, open, closing int) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= open && m <= closing
}

// BookingLookup returns the active windows for a car that intersect
// [from, to], skipping excludeBookingID when it is non-zero.
type BookingLookup interface {
	ActiveWindowsForCar(ctx context.Context, carID int, from, to time.Time, excludeBookingID int) ([]Window, error)
}

type CarLookup interface {
	GetByID(ctx context.Context, id int) (*car.Car, error)
}

type Checker struct {
	cars     CarLookup
	bookings BookingLookup
}

func NewChecker(cars CarLookup, bookings BookingLookup) *Checker {
	return &Checker{cars: cars, bookings: bookings}
}

// IsBookable loads the car and its active bookings and runs Check.
func (ch *Checker) IsBookable(ctx context.Context, carID int, w Window) (*car.Car, error) {
	c, err := ch.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	return c, ch.CheckCar(ctx, c, w, 0)
}

// CheckCar runs Check for an already loaded car. excludeBookingID keeps a
// booking from conflicting with itself when its window grows.
func (ch *Checker) CheckCar(ctx context.Context, c *car.Car, w Window, excludeBookingID int) error {
	active, err := ch.bookings.ActiveWindowsForCar(ctx, c.ID, w.Start, w.End, excludeBookingID)
	if err != nil {
		return fmt.Errorf("load active bookings: %w", err)
	}
	return Check(c, w, active)
}

// ReasonOf returns the rejection reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return "", false
}
