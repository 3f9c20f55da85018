package review

import "context"

type Repository interface {
	Create(ctx context.Context, r *Review) (*Review, error)
	ExistsForBooking(ctx context.Context, bookingID int) (bool, error)
	ListByCar(ctx context.Context, carID, limit, offset int) ([]Review, error)
	SummaryForCar(ctx context.Context, carID int) (*Summary, error)
}
