package review

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
	MaxPhotos        = 6
)

type Review struct {
	ID           int            `db:"id" json:"id"`
	BookingID    int            `db:"booking_id" json:"booking_id"`
	CarID        int            `db:"car_id" json:"car_id"`
	ReviewerID   int            `db:"reviewer_id" json:"reviewer_id"`
	ReviewerName string         `db:"reviewer_name" json:"reviewer_name,omitempty"`
	Rating       int            `db:"rating" json:"rating"`
	Comment      string         `db:"comment" json:"comment"`
	Photos       pq.StringArray `db:"photos" json:"photos" swaggertype:"array,string"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

type CreateReviewRequest struct {
	BookingID int      `json:"booking_id" binding:"required,min=1"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Comment   string   `json:"comment" binding:"max=500"`
	Photos    []string `json:"photos" binding:"max=6,dive,url"`
}

type Summary struct {
	AverageRating decimal.Decimal `db:"average_rating" json:"average_rating" swaggertype:"string"`
	TotalReviews  int             `db:"total_reviews" json:"total_reviews"`
}

type CarReviews struct {
	CarID int `json:"car_id"`
	Summary
	Reviews []Review `json:"reviews"`
}
