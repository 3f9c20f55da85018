package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/metrics"

	"github.com/lib/pq"
)

var (
	ErrAlreadyReviewed     = apperr.Conflict("already_reviewed", "this booking has already been reviewed")
	ErrNotBookingCustomer  = apperr.Forbidden("not_booking_customer", "only the customer of this booking can review it")
	ErrBookingNotCompleted = apperr.Conflict("booking_not_completed", "only completed bookings can be reviewed")
	ErrInvalidRating       = apperr.Validation("invalid_rating", "rating must be between 1 and 5")
	ErrCommentTooLong      = apperr.Validation("comment_too_long", "comment must be at most 500 characters")
	ErrTooManyPhotos       = apperr.Validation("too_many_photos", "too many review photos")
)

const defaultListLimit = 20

type BookingLookup interface {
	GetByID(ctx context.Context, id int) (*booking.Booking, error)
}

type CarLookup interface {
	GetByID(ctx context.Context, id int) (*car.Car, error)
}

type Service interface {
	Create(ctx context.Context, reviewerID int, req CreateReviewRequest) (*Review, error)
	ListForCar(ctx context.Context, carID, limit, offset int) (*CarReviews, error)
}

type service struct {
	repo     Repository
	bookings BookingLookup
	cars     CarLookup
}

func NewService(repo Repository, bookings BookingLookup, cars CarLookup) Service {
	return &service{repo: repo, bookings: bookings, cars: cars}
}

func (s *service) Create(ctx context.Context, reviewerID int, req CreateReviewRequest) (*Review, error) {
	comment := strings.TrimSpace(req.Comment)
	if err := validate(req.Rating, comment, req.Photos); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != reviewerID {
		return nil, ErrNotBookingCustomer
	}
	if b.Status != booking.StatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	exists, err := s.repo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	created, err := s.repo.Create(ctx, &Review{
		BookingID:  b.ID,
		CarID:      b.CarID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    comment,
		Photos:     cleanPhotos(req.Photos),
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordReview(strconv.Itoa(created.Rating))
	logger.Info("Review created", "review_id", created.ID, "booking_id", b.ID, "car_id", b.CarID, "rating", created.Rating)
	return created, nil
}

func (s *service) ListForCar(ctx context.Context, carID, limit, offset int) (*CarReviews, error) {
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	summary, err := s.repo.SummaryForCar(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("summarize reviews: %w", err)
	}
	reviews, err := s.repo.ListByCar(ctx, carID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &CarReviews{CarID: carID, Summary: *summary, Reviews: reviews}, nil
}

func validate(rating int, comment string, photos []string) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	if len([]rune(comment)) > MaxCommentLength {
		return ErrCommentTooLong
	}
	if len(photos) > MaxPhotos {
		return ErrTooManyPhotos
	}
	return nil
}

func cleanPhotos(photos []string) pq.StringArray {
	out := pq.StringArray{}
	for _, p := range photos {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
