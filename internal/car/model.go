package car

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	ApprovalDraft     = "draft"
	ApprovalPending   = "pending"
	ApprovalApproved  = "approved"
	ApprovalRejected  = "rejected"
	ApprovalSuspended = "suspended"
)

type Car struct {
	ID              int                 `db:"id" json:"id"`
	OwnerID         int                 `db:"owner_id" json:"owner_id"`
	Title           string              `db:"title" json:"title"`
	Brand           string              `db:"brand" json:"brand"`
	Model           string              `db:"model" json:"model"`
	Year            int                 `db:"year" json:"year"`
	PlateNumber     string              `db:"plate_number" json:"plate_number"`
	Location        string              `db:"location" json:"location"`
	PricePerHour    decimal.NullDecimal `db:"price_per_hour" json:"price_per_hour" swaggertype:"string"`
	PricePerDay     decimal.Decimal     `db:"price_per_day" json:"price_per_day" swaggertype:"string"`
	ApprovalStatus  string              `db:"approval_status" json:"approval_status"`
	InsuranceExpiry *time.Time          `db:"insurance_expiry" json:"insurance_expiry,omitempty"`
	IsAvailable     bool                `db:"is_available" json:"is_available"`
	DaysOfWeek      pq.Int64Array       `db:"days_of_week" json:"days_of_week" swaggertype:"array,integer"`
	StartTime       string              `db:"start_time" json:"start_time"`
	EndTime         string              `db:"end_time" json:"end_time"`
	Timezone        string              `db:"timezone" json:"timezone"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

// TimeLocation is the zone the daily window and weekdays are evaluated in.
func (c *Car) TimeLocation() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// AllowsWeekday reports whether d is in the car's weekday set. An empty set
// allows nothing.
func (c *Car) AllowsWeekday(d time.Weekday) bool {
	for _, v := range c.DaysOfWeek {
		if time.Weekday(v) == d {
			return true
		}
	}
	return false
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

type CreateCarRequest struct {
	Title           string           `json:"title" binding:"required,min=2,max=120"`
	Brand           string           `json:"brand" binding:"required"`
	Model           string           `json:"model" binding:"required"`
	Year            int              `json:"year" binding:"required,min=1950,max=2100"`
	PlateNumber     string           `json:"plate_number" binding:"required"`
	Location        string           `json:"location" binding:"required"`
	PricePerHour    *decimal.Decimal `json:"price_per_hour" swaggertype:"string"`
	PricePerDay     decimal.Decimal  `json:"price_per_day" swaggertype:"string"`
	InsuranceExpiry *time.Time       `json:"insurance_expiry"`
	DaysOfWeek      []int64          `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	StartTime       string           `json:"start_time" binding:"omitempty,len=5"`
	EndTime         string           `json:"end_time" binding:"omitempty,len=5"`
	Timezone        string           `json:"timezone"`
}

type UpdateAvailabilityRequest struct {
	IsAvailable     *bool            `json:"is_available"`
	DaysOfWeek      []int64          `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	StartTime       string           `json:"start_time" binding:"omitempty,len=5"`
	EndTime         string           `json:"end_time" binding:"omitempty,len=5"`
	Timezone        string           `json:"timezone"`
	InsuranceExpiry *time.Time       `json:"insurance_expiry"`
	PricePerHour    *decimal.Decimal `json:"price_per_hour" swaggertype:"string"`
	PricePerDay     *decimal.Decimal `json:"price_per_day" swaggertype:"string"`
}

type ApprovalRequest struct {
	Status string `json:"status" binding:"required,oneof=draft pending approved rejected suspended"`
}
