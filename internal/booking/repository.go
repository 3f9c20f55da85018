package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, car_id, customer_id, owner_id, start_at, end_at, duration_hours, hourly_rate,
	total_price, currency, status, payment_status, payment_reference, amount_paid, payment_due, commission_percent,
	commission_amount, owner_earning_amount, invoice_number, invoice_document, handover_secret,
	handover_secret_hash, handover_status, pickup_photos, return_photos, created_at, updated_at`

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) LockCar(ctx context.Context, carID int) error {
	var id int
	err := db.Conn(ctx, r.db).GetContext(ctx, &id, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, carID)
	if errors.Is(err, sql.ErrNoRows) {
		return car.ErrCarNotFound
	}
	return err
}

func (r *postgresRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (car_id, customer_id, owner_id, start_at, end_at, duration_hours,
			hourly_rate, total_price, currency, status, payment_status, invoice_number, handover_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + bookingColumns

	var created Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		b.CarID, b.CustomerID, b.OwnerID, b.Start, b.End, b.DurationHours,
		b.HourlyRate, b.TotalPrice, b.Currency, b.Status, b.PaymentStatus, b.InvoiceNumber, b.HandoverStatus,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*Booking, error) {
	var b Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *postgresRepository) GetForUpdate(ctx context.Context, id int) (*Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresRepository) GetByInvoiceNumber(ctx context.Context, number string) (*Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE invoice_number = $1`, number)
}

func (r *postgresRepository) GetByHandoverHash(ctx context.Context, hash string) (*Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE handover_secret_hash = $1`, hash)
}

func (r *postgresRepository) Update(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings SET
			end_at = $2, duration_hours = $3, total_price = $4, status = $5, payment_status = $6,
			payment_reference = $7, commission_percent = $8, commission_amount = $9,
			owner_earning_amount = $10, handover_secret = $11, handover_secret_hash = $12,
			handover_status = $13, pickup_photos = $14, return_photos = $15, amount_paid = $16,
			payment_due = $17, updated_at = NOW()
		WHERE id = $1`

	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query,
		b.ID, b.End, b.DurationHours, b.TotalPrice, b.Status, b.PaymentStatus,
		b.PaymentReference, b.CommissionPercent, b.CommissionAmount,
		b.OwnerEarningAmount, b.HandoverSecret, b.HandoverSecretHash,
		b.HandoverStatus, b.PickupPhotos, b.ReturnPhotos, b.AmountPaid,
		b.PaymentDue,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *postgresRepository) SetInvoiceDocument(ctx context.Context, id int, document string) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE bookings SET invoice_document = $2, updated_at = NOW() WHERE id = $1`, id, document)
	return err
}

func (r *postgresRepository) AppendHistory(ctx context.Context, c *StatusChange) error {
	query := `
		INSERT INTO booking_status_history (booking_id, status, actor_id, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return db.Conn(ctx, r.db).QueryRowxContext(ctx, query, c.BookingID, c.Status, c.ActorID, c.Note).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *postgresRepository) History(ctx context.Context, bookingID int) ([]StatusChange, error) {
	history := []StatusChange{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &history, `
		SELECT id, booking_id, status, actor_id, note, created_at
		FROM booking_status_history
		WHERE booking_id = $1
		ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (r *postgresRepository) AppendExtension(ctx context.Context, e *Extension) error {
	query := `
		INSERT INTO booking_extensions (booking_id, old_end_at, new_end_at, extra_hours, extra_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return db.Conn(ctx, r.db).QueryRowxContext(ctx, query, e.BookingID, e.OldEnd, e.NewEnd, e.ExtraHours, e.ExtraAmount).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *postgresRepository) Extensions(ctx context.Context, bookingID int) ([]Extension, error) {
	extensions := []Extension{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &extensions, `
		SELECT id, booking_id, old_end_at, new_end_at, extra_hours, extra_amount, created_at
		FROM booking_extensions
		WHERE booking_id = $1
		ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	return extensions, nil
}

func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID int) ([]Booking, error) {
	bookings := []Booking{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings WHERE customer_id = $1 ORDER BY start_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID int) ([]Booking, error) {
	bookings := []Booking{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings WHERE owner_id = $1 ORDER BY start_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *postgresRepository) ListStalePending(ctx context.Context, createdBefore time.Time) ([]int, error) {
	query := `
		SELECT id FROM bookings
		WHERE status = 'pending'
			AND payment_status IN ('unpaid', 'failed')
			AND created_at < $1
		ORDER BY id`

	var ids []int
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &ids, query, createdBefore); err != nil {
		return nil, err
	}
	return ids, nil
}

// ActiveWindowsForCar uses the same inclusive bounds as availability.Window.Overlaps.
func (r *postgresRepository) ActiveWindowsForCar(ctx context.Context, carID int, from, to time.Time, excludeBookingID int) ([]availability.Window, error) {
	query := `
		SELECT start_at, end_at
		FROM bookings
		WHERE car_id = $1
			AND status IN ('pending', 'confirmed', 'ongoing')
			AND start_at <= $3
			AND end_at >= $2
			AND id <> $4
		ORDER BY start_at`

	windows := []availability.Window{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &windows, query, carID, from, to, excludeBookingID); err != nil {
		return nil, err
	}
	return windows, nil
}
