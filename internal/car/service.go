package car

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrCarNotFound     = apperr.NotFound("car_not_found", "car not found")
	ErrNotCarOwner     = apperr.Forbidden("not_car_owner", "only the car owner can change this car")
	ErrCannotListCars  = apperr.Forbidden("role_cannot_list_cars", "only hosts and showrooms can list cars")
	ErrCarLimitReached = apperr.Conflict("car_limit_reached", "maximum number of cars reached")
	ErrInvalidPrice    = apperr.Validation("invalid_price", "a positive price per hour or per day is required")
	ErrInvalidSchedule = apperr.Validation("invalid_schedule", "start_time and end_time must be HH:MM with start before end")
	ErrInvalidTimezone = apperr.Validation("invalid_timezone", "unknown timezone")
)

const defaultListLimit = 50

type Service interface {
	Create(ctx context.Context, ownerID int, ownerRole string, req CreateCarRequest) (*Car, error)
	GetByID(ctx context.Context, id int) (*Car, error)
	ListApproved(ctx context.Context, limit, offset int) ([]Car, error)
	ListByOwner(ctx context.Context, ownerID int) ([]Car, error)
	SetApproval(ctx context.Context, id int, status string) (*Car, error)
	UpdateAvailability(ctx context.Context, ownerID, carID int, req UpdateAvailabilityRequest) (*Car, error)
}

type Options struct {
	MaxCarsPerUser  int
	DefaultTimezone string
}

type service struct {
	repo Repository
	opts Options
}

func NewService(repo Repository, opts Options) Service {
	if opts.DefaultTimezone == "" {
		opts.DefaultTimezone = "UTC"
	}
	return &service{repo: repo, opts: opts}
}

func (s *service) Create(ctx context.Context, ownerID int, ownerRole string, req CreateCarRequest) (*Car, error) {
	if ownerRole != "host" && ownerRole != "showroom" {
		return nil, ErrCannotListCars
	}

	if s.opts.MaxCarsPerUser > 0 {
		n, err := s.repo.CountByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("count cars: %w", err)
		}
		if n >= s.opts.MaxCarsPerUser {
			return nil, ErrCarLimitReached
		}
	}

	c := &Car{
		OwnerID:         ownerID,
		Title:           strings.TrimSpace(req.Title),
		Brand:           req.Brand,
		Model:           req.Model,
		Year:            req.Year,
		PlateNumber:     strings.ToUpper(strings.TrimSpace(req.PlateNumber)),
		Location:        req.Location,
		PricePerDay:     req.PricePerDay,
		ApprovalStatus:  ApprovalPending,
		InsuranceExpiry: req.InsuranceExpiry,
		IsAvailable:     true,
		DaysOfWeek:      pq.Int64Array{0, 1, 2, 3, 4, 5, 6},
		StartTime:       "00:00",
		EndTime:         "23:59",
		Timezone:        s.opts.DefaultTimezone,
	}
	if req.PricePerHour != nil {
		c.PricePerHour = decimal.NullDecimal{Decimal: *req.PricePerHour, Valid: true}
	}
	if req.DaysOfWeek != nil {
		c.DaysOfWeek = req.DaysOfWeek
	}
	if req.StartTime != "" {
		c.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		c.EndTime = req.EndTime
	}
	if req.Timezone != "" {
		c.Timezone = req.Timezone
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}

	logger.Info("car listed", "car_id", created.ID, "owner_id", ownerID)
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Car, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListApproved(ctx context.Context, limit, offset int) ([]Car, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListApproved(ctx, limit, offset)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int) ([]Car, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) SetApproval(ctx context.Context, id int, status string) (*Car, error) {
	c, err := s.repo.UpdateApproval(ctx, id, status)
	if err != nil {
		return nil, err
	}
	logger.Info("car approval changed", "car_id", id, "status", status)
	return c, nil
}

func (s *service) UpdateAvailability(ctx context.Context, ownerID, carID int, req UpdateAvailabilityRequest) (*Car, error) {
	c, err := s.repo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, ErrNotCarOwner
	}

	if req.IsAvailable != nil {
		c.IsAvailable = *req.IsAvailable
	}
	if req.DaysOfWeek != nil {
		c.DaysOfWeek = req.DaysOfWeek
	}
	if req.StartTime != "" {
		c.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		c.EndTime = req.EndTime
	}
	if req.Timezone != "" {
		c.Timezone = req.Timezone
	}
	if req.InsuranceExpiry != nil {
		c.InsuranceExpiry = req.InsuranceExpiry
	}
	if req.PricePerHour != nil {
		c.PricePerHour = decimal.NullDecimal{Decimal: *req.PricePerHour, Valid: !req.PricePerHour.IsZero()}
	}
	if req.PricePerDay != nil {
		c.PricePerDay = *req.PricePerDay
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	return s.repo.UpdateAvailability(ctx, c)
}

func validate(c *Car) error {
	hourly := c.PricePerHour.Valid && c.PricePerHour.Decimal.IsPositive()
	if !hourly && !c.PricePerDay.IsPositive() {
		return ErrInvalidPrice
	}
	if (c.PricePerHour.Valid && c.PricePerHour.Decimal.IsNegative()) || c.PricePerDay.IsNegative() {
		return ErrInvalidPrice
	}

	start, err := ParseClock(c.StartTime)
	if err != nil {
		return ErrInvalidSchedule
	}
	end, err := ParseClock(c.EndTime)
	if err != nil || start >= end {
		return ErrInvalidSchedule
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}
