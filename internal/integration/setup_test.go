package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/handover"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/invoice"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DSN, migrates and empties every table. Tests
// are skipped when no database is configured.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DSN not set")
	}

	database, err := db.Connect(dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, "../../migrations"))
	_, err = database.Exec(`TRUNCATE reviews, withdrawal_requests, wallet_transactions, wallets,
		booking_extensions, booking_status_history, bookings, cars, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return database
}

type stack struct {
	db       *sqlx.DB
	bookings booking.Service
	handover handover.Service
	wallet   wallet.Service
}

func newStack(t *testing.T, database *sqlx.DB, pendingTTL time.Duration) *stack {
	t.Helper()
	tx := db.NewTransactor(database)
	users := user.NewService(user.NewRepository(database), "test-secret")
	cars := car.NewRepository(database)
	bookingRepo := booking.NewRepository(database)

	walletSvc := wallet.NewService(wallet.NewRepository(database), tx, nil, wallet.Options{
		CommissionPercent: decimal.NewFromInt(10),
		Currency:          "PKR",
	})
	bookingSvc := booking.NewService(booking.Deps{
		Repo:     bookingRepo,
		Tx:       tx,
		Checker:  availability.NewChecker(cars, bookingRepo),
		Cars:     cars,
		Users:    users,
		Ledger:   walletSvc,
		Invoices: invoice.NewRenderer(t.TempDir(), "SwiftRide"),
	}, booking.Options{Currency: "PKR", PendingTTL: pendingTTL})

	return &stack{
		db:       database,
		bookings: bookingSvc,
		handover: handover.NewService(bookingSvc),
		wallet:   walletSvc,
	}
}

func createUser(t *testing.T, database *sqlx.DB, email, role string, kyc bool) int {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	var id int
	err = database.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, is_kyc_approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, email, email, hash, role, kyc).Scan(&id)
	require.NoError(t, err)
	return id
}

func createCar(t *testing.T, database *sqlx.DB, ownerID int, pricePerDay string) int {
	t.Helper()
	var id int
	err := database.QueryRow(`
		INSERT INTO cars (owner_id, title, brand, model, year, plate_number, price_per_day, approval_status)
		VALUES ($1, 'Corolla 2022', 'Toyota', 'Corolla', 2022, 'LEA-1234', $2, 'approved')
		RETURNING id`, ownerID, pricePerDay).Scan(&id)
	require.NoError(t, err)
	return id
}

// tripWindow is a five hour window two days from now.
func tripWindow() (time.Time, time.Time) {
	day := time.Now().UTC().AddDate(0, 0, 2)
	start := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
	return start, start.Add(5 * time.Hour)
}

func photos() []string {
	return []string{"p/front.jpg", "p/back.jpg", "p/left.jpg", "p/right.jpg"}
}

// paidAndConfirmed books the window, captures the full price and confirms.
func paidAndConfirmed(t *testing.T, s *stack, hostID, customerID, carID int, start, end time.Time) *booking.Booking {
	t.Helper()
	b, err := s.bookings.Create(bg, customerID, booking.CreateBookingRequest{CarID: carID, Start: start, End: end})
	require.NoError(t, err)
	b, err = s.bookings.StartPayment(bg, b.ID, customerID)
	require.NoError(t, err)
	_, err = s.bookings.RecordPayment(bg, booking.PaymentResult{BookingID: b.ID, Success: true, Amount: b.PaymentDue.Decimal})
	require.NoError(t, err)
	b, err = s.bookings.TransitionStatus(bg, b.ID, hostID, booking.TransitionRequest{Status: booking.StatusConfirmed})
	require.NoError(t, err)
	return b
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

var bg = context.Background()
