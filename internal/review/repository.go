package review

import (
	"context"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"

	"github.com/jmoiron/sqlx"
)

const (
	reviewColumns = `id, booking_id, car_id, reviewer_id, rating, comment, photos, created_at, updated_at`

	bookingUniqueConstraint = "reviews_booking_id_key"
)

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, rv *Review) (*Review, error) {
	query := `
		INSERT INTO reviews (booking_id, car_id, reviewer_id, rating, comment, photos)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewColumns

	var created Review
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		rv.BookingID, rv.CarID, rv.ReviewerID, rv.Rating, rv.Comment, rv.Photos,
	)
	if db.IsUniqueViolation(err, bookingUniqueConstraint) {
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepository) ExistsForBooking(ctx context.Context, bookingID int) (bool, error) {
	return db.Exists(ctx, db.Conn(ctx, r.db),
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID)
}

func (r *postgresRepository) ListByCar(ctx context.Context, carID, limit, offset int) ([]Review, error) {
	query := `
		SELECT r.id, r.booking_id, r.car_id, r.reviewer_id, u.name AS reviewer_name,
			r.rating, r.comment, r.photos, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.reviewer_id
		WHERE r.car_id = $1
		ORDER BY r.id DESC
		LIMIT $2 OFFSET $3`

	reviews := []Review{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &reviews, query, carID, limit, offset); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *postgresRepository) SummaryForCar(ctx context.Context, carID int) (*Summary, error) {
	query := `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS average_rating,
			COUNT(*) AS total_reviews
		FROM reviews
		WHERE car_id = $1`

	var s Summary
	if err := db.Conn(ctx, r.db).GetContext(ctx, &s, query, carID); err != nil {
		return nil, err
	}
	return &s, nil
}
