package booking

import (
	"context"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/wallet"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LockCar(ctx context.Context, carID int) error {
	return m.Called(ctx, carID).Error(0)
}

func (m *MockRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetForUpdate(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByInvoiceNumber(ctx context.Context, number string) (*Booking, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByHandoverHash(ctx context.Context, hash string) (*Booking, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) SetInvoiceDocument(ctx context.Context, id int, document string) error {
	return m.Called(ctx, id, document).Error(0)
}

func (m *MockRepository) AppendHistory(ctx context.Context, c *StatusChange) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) History(ctx context.Context, bookingID int) ([]StatusChange, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StatusChange), args.Error(1)
}

func (m *MockRepository) AppendExtension(ctx context.Context, e *Extension) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockRepository) Extensions(ctx context.Context, bookingID int) ([]Extension, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Extension), args.Error(1)
}

func (m *MockRepository) ListByCustomer(ctx context.Context, customerID int) ([]Booking, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID int) ([]Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) ListStalePending(ctx context.Context, createdBefore time.Time) ([]int, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockRepository) ActiveWindowsForCar(ctx context.Context, carID int, from, to time.Time, excludeBookingID int) ([]availability.Window, error) {
	args := m.Called(ctx, carID, from, to, excludeBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]availability.Window), args.Error(1)
}

type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) IsBookable(ctx context.Context, carID int, w availability.Window) (*car.Car, error) {
	args := m.Called(ctx, carID, w)
	c, _ := args.Get(0).(*car.Car)
	return c, args.Error(1)
}

func (m *MockAvailability) CheckCar(ctx context.Context, c *car.Car, w availability.Window, excludeBookingID int) error {
	return m.Called(ctx, c, w, excludeBookingID).Error(0)
}

type MockCars struct {
	mock.Mock
}

func (m *MockCars) GetByID(ctx context.Context, id int) (*car.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*car.Car), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) CreateBookingEarning(ctx context.Context, in wallet.EarningInput) (*wallet.Earning, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Earning), args.Error(1)
}

func (m *MockLedger) AddToBookingEarning(ctx context.Context, in wallet.EarningInput) (*wallet.Earning, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Earning), args.Error(1)
}

func (m *MockLedger) ReleaseBookingEarning(ctx context.Context, bookingID int) (*wallet.Transaction, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockLedger) ReverseBookingEarning(ctx context.Context, bookingID int) (*wallet.Transaction, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

type MockInvoices struct {
	mock.Mock
}

func (m *MockInvoices) Render(ctx context.Context, inv Invoice) (string, error) {
	args := m.Called(ctx, inv)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int, event string, payload map[string]string) {
	m.Called(ctx, userID, event, payload)
}
