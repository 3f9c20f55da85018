// Package handover runs the pickup and return protocol of a confirmed
// booking. The host scans the customer's handover code, photographs the car
// and the booking advances to ongoing on pickup and completed on return.
package handover

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/metrics"
)

const (
	MinPhotos = 4

	StepPickup = "pickup"
	StepReturn = "return"
)

var (
	ErrInvalidSecret   = apperr.NotFound("invalid_handover_code", "handover code not recognised")
	ErrInvalidState    = apperr.Conflict("invalid_handover_state", "booking is not at a handover step")
	ErrScanRequired    = apperr.Conflict("scan_required", "scan the handover code first")
	ErrNotEnoughPhotos = apperr.Validation("not_enough_photos", "at least 4 photos are required")
)

type ScanRequest struct {
	Code string `json:"code" binding:"required,min=16,max=256"`
}

type PhotosRequest struct {
	BookingID int      `json:"booking_id" binding:"required,min=1"`
	Photos    []string `json:"photos" binding:"required,min=4,dive,required,max=1024"`
}

type ScanResult struct {
	Step    string           `json:"step" example:"pickup"`
	Booking *booking.Booking `json:"booking"`
}

// Bookings is the booking lifecycle the protocol drives.
type Bookings interface {
	FindByHandoverHash(ctx context.Context, hash string) (*booking.Booking, error)
	Handover(ctx context.Context, bookingID, hostID int, step booking.HandoverStep) (*booking.Booking, error)
}

type Service interface {
	Scan(ctx context.Context, hostID int, code string) (*ScanResult, error)
	SubmitPickup(ctx context.Context, hostID int, req PhotosRequest) (*booking.Booking, error)
	SubmitReturn(ctx context.Context, hostID int, req PhotosRequest) (*booking.Booking, error)
}

type service struct {
	bookings Bookings
}

func NewService(bookings Bookings) Service {
	return &service{bookings: bookings}
}

// scanTarget maps the booking and handover status to the step a scan
// belongs to. Rescanning an already scanned step is allowed.
func scanTarget(b *booking.Booking) (step, next string, err error) {
	switch {
	case b.Status == booking.StatusConfirmed && b.HandoverStatus == booking.HandoverPending,
		b.Status == booking.StatusConfirmed && b.HandoverStatus == booking.HandoverPickupScanned:
		return StepPickup, booking.HandoverPickupScanned, nil
	case b.Status == booking.StatusOngoing && b.HandoverStatus == booking.HandoverActive,
		b.Status == booking.StatusOngoing && b.HandoverStatus == booking.HandoverReturnScanned:
		return StepReturn, booking.HandoverReturnScanned, nil
	default:
		return "", "", ErrInvalidState
	}
}

func (s *service) Scan(ctx context.Context, hostID int, code string) (*ScanResult, error) {
	code = strings.TrimSpace(code)

	b, err := s.bookings.FindByHandoverHash(ctx, booking.HashSecret(code))
	if errors.Is(err, booking.ErrBookingNotFound) {
		logger.Warn("unknown handover code", "host_id", hostID, "code", maskSecret(code))
		return nil, ErrInvalidSecret
	}
	if err != nil {
		return nil, err
	}
	if b.HandoverSecret == nil || subtle.ConstantTimeCompare([]byte(*b.HandoverSecret), []byte(code)) != 1 {
		logger.Warn("handover code mismatch", "booking_id", b.ID, "code", maskSecret(code))
		return nil, ErrInvalidSecret
	}

	result := &ScanResult{}
	result.Booking, err = s.bookings.Handover(ctx, b.ID, hostID, func(b *booking.Booking) (string, error) {
		step, next, err := scanTarget(b)
		if err != nil {
			return "", err
		}
		result.Step = step
		b.HandoverStatus = next
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordHandoverStep("scan_" + result.Step)
	logger.Info("handover code scanned",
		"booking_id", b.ID,
		"host_id", hostID,
		"step", result.Step,
		"code", maskSecret(code),
	)
	return result, nil
}

func (s *service) SubmitPickup(ctx context.Context, hostID int, req PhotosRequest) (*booking.Booking, error) {
	photos, err := cleanPhotos(req.Photos)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.Handover(ctx, req.BookingID, hostID, func(b *booking.Booking) (string, error) {
		if b.Status != booking.StatusConfirmed {
			return "", ErrInvalidState
		}
		switch b.HandoverStatus {
		case booking.HandoverPickupScanned:
		case booking.HandoverPending:
			return "", ErrScanRequired
		default:
			return "", ErrInvalidState
		}
		b.PickupPhotos = photos
		b.HandoverStatus = booking.HandoverActive
		return booking.StatusOngoing, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordHandoverStep(StepPickup)
	logger.Info("car picked up", "booking_id", b.ID, "host_id", hostID, "photos", len(photos))
	return b, nil
}

func (s *service) SubmitReturn(ctx context.Context, hostID int, req PhotosRequest) (*booking.Booking, error) {
	photos, err := cleanPhotos(req.Photos)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.Handover(ctx, req.BookingID, hostID, func(b *booking.Booking) (string, error) {
		if b.Status != booking.StatusOngoing {
			return "", ErrInvalidState
		}
		switch b.HandoverStatus {
		case booking.HandoverReturnScanned:
		case booking.HandoverActive:
			return "", ErrScanRequired
		default:
			return "", ErrInvalidState
		}
		b.ReturnPhotos = photos
		b.HandoverStatus = booking.HandoverCompleted
		return booking.StatusCompleted, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordHandoverStep(StepReturn)
	logger.Info("car returned", "booking_id", b.ID, "host_id", hostID, "photos", len(photos))
	return b, nil
}

func cleanPhotos(photos []string) ([]string, error) {
	cleaned := make([]string, 0, len(photos))
	for _, p := range photos {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) < MinPhotos {
		return nil, ErrNotEnoughPhotos
	}
	return cleaned, nil
}

// maskSecret keeps a short prefix so log lines can be correlated.
func maskSecret(secret string) string {
	if len(secret) <= 6 {
		return "******"
	}
	return secret[:6] + "******"
}
