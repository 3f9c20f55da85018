package car

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"

	"github.com/jmoiron/sqlx"
)

const carColumns = `id, owner_id, title, brand, model, year, plate_number, location,
	price_per_hour, price_per_day, approval_status, insurance_expiry, is_available,
	days_of_week, start_time, end_time, timezone, created_at, updated_at`

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, c *Car) (*Car, error) {
	query := `
		INSERT INTO cars (owner_id, title, brand, model, year, plate_number, location,
			price_per_hour, price_per_day, approval_status, insurance_expiry, is_available,
			days_of_week, start_time, end_time, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + carColumns

	var created Car
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		c.OwnerID, c.Title, c.Brand, c.Model, c.Year, c.PlateNumber, c.Location,
		c.PricePerHour, c.PricePerDay, c.ApprovalStatus, c.InsuranceExpiry, c.IsAvailable,
		c.DaysOfWeek, c.StartTime, c.EndTime, c.Timezone,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int) (*Car, error) {
	var c Car
	err := db.Conn(ctx, r.db).GetContext(ctx, &c, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) ListApproved(ctx context.Context, limit, offset int) ([]Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE approval_status = 'approved' AND is_available = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	cars := []Car{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &cars, query, limit, offset); err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID int) ([]Car, error) {
	cars := []Car{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &cars,
		`SELECT `+carColumns+` FROM cars WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *postgresRepository) CountByOwner(ctx context.Context, ownerID int) (int, error) {
	var n int
	err := db.Conn(ctx, r.db).GetContext(ctx, &n, `SELECT COUNT(*) FROM cars WHERE owner_id = $1`, ownerID)
	return n, err
}

func (r *postgresRepository) UpdateApproval(ctx context.Context, id int, status string) (*Car, error) {
	query := `
		UPDATE cars SET approval_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + carColumns

	var c Car
	err := db.Conn(ctx, r.db).GetContext(ctx, &c, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) UpdateAvailability(ctx context.Context, c *Car) (*Car, error) {
	query := `
		UPDATE cars SET
			is_available = $2, days_of_week = $3, start_time = $4, end_time = $5, timezone = $6,
			insurance_expiry = $7, price_per_hour = $8, price_per_day = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + carColumns

	var updated Car
	err := db.Conn(ctx, r.db).GetContext(ctx, &updated, query,
		c.ID, c.IsAvailable, c.DaysOfWeek, c.StartTime, c.EndTime, c.Timezone,
		c.InsuranceExpiry, c.PricePerHour, c.PricePerDay,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
