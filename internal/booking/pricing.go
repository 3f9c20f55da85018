package booking

import (
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"

	"github.com/shopspring/decimal"
)

const (
	ratePlaces  = 6
	moneyPlaces = 2
)

var hoursPerDay = decimal.NewFromInt(24)

// HourlyRate is the car's hourly price, or its daily price spread over 24
// hours when no hourly price is set.
func HourlyRate(c *car.Car) decimal.Decimal {
	if c.PricePerHour.Valid && c.PricePerHour.Decimal.IsPositive() {
		return c.PricePerHour.Decimal.Round(ratePlaces)
	}
	return c.PricePerDay.Div(hoursPerDay).Round(ratePlaces)
}

// CeilHours rounds d up to whole hours.
func CeilHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	h := int(d / time.Hour)
	if d%time.Hour != 0 {
		h++
	}
	return h
}

func Price(rate decimal.Decimal, hours int) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(hours))).Round(moneyPlaces)
}
