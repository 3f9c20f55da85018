package booking

import (
	"context"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
)

type Repository interface {
	// LockCar takes a row lock on the car so concurrent bookings of the same
	// car serialise their overlap check and insert.
	LockCar(ctx context.Context, carID int) error
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetForUpdate(ctx context.Context, id int) (*Booking, error)
	GetByInvoiceNumber(ctx context.Context, number string) (*Booking, error)
	GetByHandoverHash(ctx context.Context, hash string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	SetInvoiceDocument(ctx context.Context, id int, document string) error

	AppendHistory(ctx context.Context, c *StatusChange) error
	History(ctx context.Context, bookingID int) ([]StatusChange, error)
	AppendExtension(ctx context.Context, e *Extension) error
	Extensions(ctx context.Context, bookingID int) ([]Extension, error)

	ListByCustomer(ctx context.Context, customerID int) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID int) ([]Booking, error)
	ListStalePending(ctx context.Context, createdBefore time.Time) ([]int, error)

	ActiveWindowsForCar(ctx context.Context, carID int, from, to time.Time, excludeBookingID int) ([]availability.Window, error)
}
