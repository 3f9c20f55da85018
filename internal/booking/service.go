package booking

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/metrics"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBookingNotFound     = apperr.NotFound("booking_not_found", "booking not found")
	ErrInvalidWindow       = apperr.Validation("invalid_window", "booking end must be after start")
	ErrStartInPast         = apperr.Validation("start_in_past", "booking cannot start in the past")
	ErrInvalidExtension    = apperr.Validation("invalid_extension", "new end must be after the current end")
	ErrCustomerOnly        = apperr.Forbidden("customer_only", "only customers can book cars")
	ErrCustomerNotVerified = apperr.Forbidden("kyc_required", "customer identity is not verified")
	ErrNotBookingOwner     = apperr.Forbidden("not_booking_owner", "only the car owner can do this")
	ErrNotBookingCustomer  = apperr.Forbidden("not_booking_customer", "only the booking customer can do this")
	ErrNotParticipant      = apperr.Forbidden("not_participant", "booking belongs to another user")
	ErrSelfBooking         = apperr.Conflict("self_booking", "owners cannot book their own car")
	ErrBookingTerminal     = apperr.Conflict("booking_terminal", "booking is already completed or cancelled")
	ErrInvalidTransition   = apperr.Conflict("invalid_transition", "status change is not allowed")
	ErrNotExtendable       = apperr.Conflict("not_extendable", "only confirmed or ongoing bookings can be extended")
	ErrNotCancellable      = apperr.Conflict("not_cancellable", "only pending or confirmed bookings can be cancelled")
	ErrPaymentRequired     = apperr.Conflict("payment_required", "booking payment has not been started")
	ErrAlreadyPaid         = apperr.Conflict("already_paid", "booking is already paid")
	ErrHandoverRequired    = apperr.Conflict("handover_required", "trip start and return are recorded through the handover")
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"

	noteExpired = "expired unpaid"
)

// Notifier delivers user notifications. Implementations must not block on
// delivery.
type Notifier interface {
	Notify(ctx context.Context, userID int, event string, payload map[string]string)
}

type Availability interface {
	IsBookable(ctx context.Context, carID int, w availability.Window) (*car.Car, error)
	CheckCar(ctx context.Context, c *car.Car, w availability.Window, excludeBookingID int) error
}

type CarLookup interface {
	GetByID(ctx context.Context, id int) (*car.Car, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int) (*user.User, error)
}

// Ledger is the part of the wallet the booking lifecycle posts to. Calls are
// made inside the booking's transaction.
type Ledger interface {
	CreateBookingEarning(ctx context.Context, in wallet.EarningInput) (*wallet.Earning, error)
	AddToBookingEarning(ctx context.Context, in wallet.EarningInput) (*wallet.Earning, error)
	ReleaseBookingEarning(ctx context.Context, bookingID int) (*wallet.Transaction, error)
	ReverseBookingEarning(ctx context.Context, bookingID int) (*wallet.Transaction, error)
}

type Invoice struct {
	Booking  *Booking
	Car      *car.Car
	Customer *user.User
	Owner    *user.User
}

// InvoiceRenderer produces the invoice document for a confirmed booking and
// returns a reference to it.
type InvoiceRenderer interface {
	Render(ctx context.Context, inv Invoice) (string, error)
}

// HandoverStep changes the handover fields of a locked booking and returns
// the booking status to move to, or "" to keep the current one.
type HandoverStep func(b *Booking) (next string, err error)

type Service interface {
	Create(ctx context.Context, customerID int, req CreateBookingRequest) (*Booking, error)
	Get(ctx context.Context, bookingID, viewerID int, viewerRole string) (*Detail, error)
	ListForCustomer(ctx context.Context, customerID int) ([]Booking, error)
	ListForOwner(ctx context.Context, ownerID int) ([]Booking, error)

	TransitionStatus(ctx context.Context, bookingID, ownerID int, req TransitionRequest) (*Booking, error)
	Extend(ctx context.Context, bookingID, customerID int, req ExtendRequest) (*Booking, error)
	Cancel(ctx context.Context, bookingID, customerID int, req CancelRequest) (*Booking, error)
	ExpireStale(ctx context.Context) (int, error)

	Handover(ctx context.Context, bookingID, hostID int, step HandoverStep) (*Booking, error)
	FindByHandoverHash(ctx context.Context, hash string) (*Booking, error)

	StartPayment(ctx context.Context, bookingID, customerID int) (*Booking, error)
	RecordPayment(ctx context.Context, res PaymentResult) (*PaymentOutcome, error)
	ResolveReference(ctx context.Context, ref string) (*Booking, error)
}

type Options struct {
	Currency   string
	PendingTTL time.Duration
}

type service struct {
	repo      Repository
	tx        db.Transactor
	checker   Availability
	cars      CarLookup
	users     UserLookup
	ledger    Ledger
	invoices  InvoiceRenderer
	notifier  Notifier
	opts      Options
	now       func() time.Time
	newSecret func() (string, error)
}

type Deps struct {
	Repo     Repository
	Tx       db.Transactor
	Checker  Availability
	Cars     CarLookup
	Users    UserLookup
	Ledger   Ledger
	Invoices InvoiceRenderer
	Notifier Notifier
}

func NewService(deps Deps, opts Options) Service {
	return &service{
		repo:      deps.Repo,
		tx:        deps.Tx,
		checker:   deps.Checker,
		cars:      deps.Cars,
		users:     deps.Users,
		ledger:    deps.Ledger,
		invoices:  deps.Invoices,
		notifier:  deps.Notifier,
		opts:      opts,
		now:       time.Now,
		newSecret: NewHandoverSecret,
	}
}

// NewHandoverSecret returns 32 random bytes, hex encoded.
func NewHandoverSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate handover secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashSecret is the lookup key stored next to a handover secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (s *service) Create(ctx context.Context, customerID int, req CreateBookingRequest) (*Booking, error) {
	w := availability.Window{Start: req.Start.UTC(), End: req.End.UTC()}
	if !w.End.After(w.Start) {
		return nil, ErrInvalidWindow
	}
	if w.Start.Before(s.now()) {
		return nil, ErrStartInPast
	}

	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Role != user.RoleCustomer {
		return nil, ErrCustomerOnly
	}
	if !customer.IsKYCApproved {
		return nil, ErrCustomerNotVerified
	}

	var created *Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockCar(ctx, req.CarID); err != nil {
			return err
		}

		c, err := s.checker.IsBookable(ctx, req.CarID, w)
		if c != nil && c.OwnerID == customerID {
			return ErrSelfBooking
		}
		if err != nil {
			if reason, ok := availability.ReasonOf(err); ok {
				metrics.RecordAvailabilityRejection(string(reason))
			}
			return err
		}

		hours := CeilHours(w.End.Sub(w.Start))
		rate := HourlyRate(c)
		created, err = s.repo.Create(ctx, &Booking{
			CarID:          c.ID,
			CustomerID:     customerID,
			OwnerID:        c.OwnerID,
			Start:          w.Start,
			End:            w.End,
			DurationHours:  hours,
			HourlyRate:     rate,
			TotalPrice:     Price(rate, hours),
			Currency:       s.opts.Currency,
			Status:         StatusPending,
			PaymentStatus:  PaymentUnpaid,
			InvoiceNumber:  s.invoiceNumber(),
			HandoverStatus: HandoverPending,
		})
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		return s.repo.AppendHistory(ctx, &StatusChange{
			BookingID: created.ID,
			Status:    StatusPending,
			ActorID:   &customerID,
			Note:      "booking requested",
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCreated()
	logger.Info("booking created",
		"booking_id", created.ID,
		"car_id", created.CarID,
		"user_id", customerID,
		"amount", created.TotalPrice.String(),
	)
	s.notify(ctx, created.OwnerID, EventBookingCreated, created)
	return created, nil
}

func (s *service) invoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("INV-%s-%s", s.now().UTC().Format("20060102"), id[:10])
}

func (s *service) Get(ctx context.Context, bookingID, viewerID int, viewerRole string) (*Detail, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != viewerID && b.OwnerID != viewerID && viewerRole != user.RoleAdmin {
		return nil, ErrNotParticipant
	}

	history, err := s.repo.History(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	extensions, err := s.repo.Extensions(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load extensions: %w", err)
	}

	d := &Detail{Booking: *b, History: history, Extensions: extensions}
	if b.CustomerID == viewerID && b.HandoverSecret != nil && !b.IsTerminal() {
		d.HandoverSecret = *b.HandoverSecret
	}
	return d, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID int) ([]Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) ListForOwner(ctx context.Context, ownerID int) ([]Booking, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) TransitionStatus(ctx context.Context, bookingID, ownerID int, req TransitionRequest) (*Booking, error) {
	var (
		b    *Booking
		from string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.OwnerID != ownerID {
			return ErrNotBookingOwner
		}
		from = b.Status
		return s.moveTo(ctx, b, req.Status, &ownerID, req.Note)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, b, from)
	return b, nil
}

// moveTo validates and writes one status change together with its history
// entry and ledger postings. It must run inside a transaction holding the
// booking row lock.
func (s *service) moveTo(ctx context.Context, b *Booking, to string, actorID *int, note string) error {
	if b.IsTerminal() {
		return ErrBookingTerminal
	}
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, b.Status, to)
	}
	if (to == StatusOngoing && b.HandoverStatus != HandoverActive) ||
		(to == StatusCompleted && b.HandoverStatus != HandoverCompleted) {
		return ErrHandoverRequired
	}

	if to == StatusConfirmed {
		customer, err := s.users.GetByID(ctx, b.CustomerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if !customer.IsKYCApproved {
			return ErrCustomerNotVerified
		}
		if b.PaymentStatus != PaymentProcessing && b.PaymentStatus != PaymentPaid {
			return ErrPaymentRequired
		}
		if b.HandoverSecret == nil {
			secret, err := s.newSecret()
			if err != nil {
				return err
			}
			hash := HashSecret(secret)
			b.HandoverSecret = &secret
			b.HandoverSecretHash = &hash
		}
	}

	b.Status = to
	if err := s.repo.Update(ctx, b); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if err := s.repo.AppendHistory(ctx, &StatusChange{
		BookingID: b.ID,
		Status:    to,
		ActorID:   actorID,
		Note:      note,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	switch to {
	case StatusCompleted:
		if _, err := s.ledger.ReleaseBookingEarning(ctx, b.ID); err != nil {
			return fmt.Errorf("release earning: %w", err)
		}
	case StatusCancelled:
		if _, err := s.ledger.ReverseBookingEarning(ctx, b.ID); err != nil {
			return fmt.Errorf("reverse earning: %w", err)
		}
	}
	return nil
}

// afterTransition runs the best-effort effects of a committed status change.
func (s *service) afterTransition(ctx context.Context, b *Booking, from string) {
	if b.Status == from {
		return
	}
	metrics.RecordBookingTransition(from, b.Status)
	logger.Info("booking status changed",
		"booking_id", b.ID,
		"from", from,
		"to", b.Status,
		"amount", b.TotalPrice.String(),
	)

	switch b.Status {
	case StatusConfirmed:
		s.renderInvoice(ctx, b)
		s.notify(ctx, b.CustomerID, EventBookingConfirmed, b)
	case StatusCompleted:
		s.notify(ctx, b.CustomerID, EventBookingCompleted, b)
	case StatusCancelled:
		s.notify(ctx, b.CustomerID, EventBookingCancelled, b)
		s.notify(ctx, b.OwnerID, EventBookingCancelled, b)
	}
}

func (s *service) renderInvoice(ctx context.Context, b *Booking) {
	if s.invoices == nil {
		return
	}
	inv := Invoice{Booking: b}
	var err error
	if inv.Car, err = s.cars.GetByID(ctx, b.CarID); err != nil {
		logger.Warn("invoice skipped: car lookup failed", "booking_id", b.ID, "error", err)
		return
	}
	if inv.Customer, err = s.users.GetByID(ctx, b.CustomerID); err != nil {
		logger.Warn("invoice skipped: customer lookup failed", "booking_id", b.ID, "error", err)
		return
	}
	if inv.Owner, err = s.users.GetByID(ctx, b.OwnerID); err != nil {
		logger.Warn("invoice skipped: owner lookup failed", "booking_id", b.ID, "error", err)
		return
	}

	doc, err := s.invoices.Render(ctx, inv)
	if err != nil {
		logger.Warn("invoice render failed", "booking_id", b.ID, "error", err)
		return
	}
	if err := s.repo.SetInvoiceDocument(ctx, b.ID, doc); err != nil {
		logger.Warn("invoice reference not saved", "booking_id", b.ID, "error", err)
		return
	}
	b.InvoiceDocument = &doc
}

func (s *service) Extend(ctx context.Context, bookingID, customerID int, req ExtendRequest) (*Booking, error) {
	var (
		b   *Booking
		ext *Extension
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != customerID {
			return ErrNotBookingCustomer
		}
		if b.Status != StatusConfirmed && b.Status != StatusOngoing {
			return ErrNotExtendable
		}

		newEnd := req.NewEnd.UTC()
		if !newEnd.After(b.End) {
			return ErrInvalidExtension
		}

		if err := s.repo.LockCar(ctx, b.CarID); err != nil {
			return err
		}
		c, err := s.cars.GetByID(ctx, b.CarID)
		if err != nil {
			return fmt.Errorf("load car: %w", err)
		}
		if err := s.checker.CheckCar(ctx, c, availability.Window{Start: b.End, End: newEnd}, b.ID); err != nil {
			return err
		}

		hours := CeilHours(newEnd.Sub(b.End))
		ext = &Extension{
			BookingID:   b.ID,
			OldEnd:      b.End,
			NewEnd:      newEnd,
			ExtraHours:  hours,
			ExtraAmount: Price(b.HourlyRate, hours),
		}
		if err := s.repo.AppendExtension(ctx, ext); err != nil {
			return fmt.Errorf("append extension: %w", err)
		}

		b.End = newEnd
		b.DurationHours += hours
		b.TotalPrice = b.TotalPrice.Add(ext.ExtraAmount)
		if b.PaymentStatus == PaymentPaid {
			b.PaymentStatus = PaymentUnpaid
		}
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingExtension()
	logger.Info("booking extended",
		"booking_id", b.ID,
		"user_id", customerID,
		"extra_hours", ext.ExtraHours,
		"amount", ext.ExtraAmount.String(),
	)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, bookingID, customerID int, req CancelRequest) (*Booking, error) {
	var (
		b    *Booking
		from string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != customerID {
			return ErrNotBookingCustomer
		}
		if b.Status != StatusPending && b.Status != StatusConfirmed {
			return ErrNotCancellable
		}
		from = b.Status
		return s.moveTo(ctx, b, StatusCancelled, &customerID, req.Note)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, b, from)
	return b, nil
}

// ExpireStale cancels pending bookings that were never paid within the
// configured TTL. Failures on one booking do not stop the sweep.
func (s *service) ExpireStale(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.opts.PendingTTL)
	ids, err := s.repo.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale bookings: %w", err)
	}

	expired := 0
	for _, id := range ids {
		var b *Booking
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			b, err = s.repo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if b.Status != StatusPending || b.PaymentStatus == PaymentPaid || b.PaymentStatus == PaymentProcessing {
				b = nil
				return nil
			}
			return s.moveTo(ctx, b, StatusCancelled, nil, noteExpired)
		})
		if err != nil {
			logger.Error("expire booking failed", "booking_id", id, "error", err)
			continue
		}
		if b != nil {
			expired++
			s.afterTransition(ctx, b, StatusPending)
		}
	}
	return expired, nil
}

func (s *service) Handover(ctx context.Context, bookingID, hostID int, step HandoverStep) (*Booking, error) {
	var (
		b    *Booking
		from string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.OwnerID != hostID {
			return ErrNotBookingOwner
		}
		from = b.Status

		next, err := step(b)
		if err != nil {
			return err
		}
		if next == "" {
			return s.repo.Update(ctx, b)
		}
		return s.moveTo(ctx, b, next, &hostID, "handover "+b.HandoverStatus)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, b, from)
	return b, nil
}

func (s *service) FindByHandoverHash(ctx context.Context, hash string) (*Booking, error) {
	return s.repo.GetByHandoverHash(ctx, hash)
}

func (s *service) StartPayment(ctx context.Context, bookingID, customerID int) (*Booking, error) {
	var b *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != customerID {
			return ErrNotBookingCustomer
		}
		if b.Status == StatusCancelled {
			return ErrBookingTerminal
		}
		due := b.Outstanding()
		if b.PaymentStatus == PaymentPaid || !due.IsPositive() {
			return ErrAlreadyPaid
		}
		b.PaymentStatus = PaymentProcessing
		b.PaymentDue = decimal.NewNullDecimal(due)
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("booking payment started", "booking_id", b.ID, "user_id", customerID, "amount", b.PaymentDue.Decimal.String())
	return b, nil
}

// RecordPayment applies a verified gateway result to the booking's open
// checkout. Results arriving when no checkout is open, including repeated
// deliveries for an already paid booking, are reported as duplicates and
// change nothing. A successful result must match the checkout amount.
func (s *service) RecordPayment(ctx context.Context, res PaymentResult) (*PaymentOutcome, error) {
	out := &PaymentOutcome{}
	var captured decimal.Decimal
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, res.BookingID)
		if err != nil {
			return err
		}
		out.Booking = b

		if b.PaymentStatus == PaymentPaid || !b.PaymentDue.Valid {
			out.Duplicate = true
			return nil
		}
		if !res.Success || !res.Amount.Equal(b.PaymentDue.Decimal) {
			out.AmountMismatch = res.Success
			b.PaymentStatus = PaymentFailed
			return s.repo.Update(ctx, b)
		}

		captured = b.PaymentDue.Decimal
		b.AmountPaid = b.AmountPaid.Add(captured)
		b.PaymentDue = decimal.NullDecimal{}
		b.PaymentStatus = PaymentPaid
		if b.Outstanding().IsPositive() {
			b.PaymentStatus = PaymentUnpaid
		}
		if res.ProviderRef != "" {
			ref := res.ProviderRef
			b.PaymentReference = &ref
		}

		if b.Status != StatusCancelled {
			if err := s.postEarning(ctx, b, captured); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	b := out.Booking
	switch {
	case out.Duplicate:
		metrics.RecordPayment("duplicate")
		logger.Warn("duplicate payment result ignored", "booking_id", b.ID, "success", res.Success)
	case out.AmountMismatch:
		metrics.RecordPayment("amount_mismatch")
		logger.Warn("payment amount does not match checkout",
			"booking_id", b.ID,
			"amount", res.Amount.String(),
			"expected", b.PaymentDue.Decimal.String(),
		)
	case res.Success:
		metrics.RecordPayment("success")
		logger.Info("booking payment captured",
			"booking_id", b.ID,
			"user_id", b.CustomerID,
			"amount", captured.String(),
			"outstanding", b.Outstanding().String(),
		)
		if b.Status == StatusCancelled {
			logger.Warn("payment captured for cancelled booking", "booking_id", b.ID)
		}
	default:
		metrics.RecordPayment("failed")
		logger.Warn("booking payment failed", "booking_id", b.ID, "user_id", b.CustomerID)
	}
	return out, nil
}

// postEarning credits the owner's share of a captured amount. The first
// capture creates the booking's earning; later ones add to it at the
// commission rate snapshotted by the first. On a completed booking the
// earning is released at once since no later transition will release it.
func (s *service) postEarning(ctx context.Context, b *Booking, captured decimal.Decimal) error {
	in := wallet.EarningInput{
		BookingID:  b.ID,
		OwnerID:    b.OwnerID,
		TotalPrice: captured,
		Currency:   b.Currency,
	}

	var (
		earning *wallet.Earning
		err     error
	)
	if b.CommissionPercent.Valid {
		in.CommissionPercent = b.CommissionPercent
		earning, err = s.ledger.AddToBookingEarning(ctx, in)
	} else {
		earning, err = s.ledger.CreateBookingEarning(ctx, in)
	}
	if err != nil {
		return fmt.Errorf("post earning: %w", err)
	}

	b.CommissionPercent = decimal.NewNullDecimal(earning.CommissionPercent)
	b.CommissionAmount = decimal.NewNullDecimal(b.CommissionAmount.Decimal.Add(earning.CommissionAmount))
	b.OwnerEarningAmount = decimal.NewNullDecimal(b.OwnerEarningAmount.Decimal.Add(earning.OwnerEarning))

	if b.Status == StatusCompleted {
		if _, err := s.ledger.ReleaseBookingEarning(ctx, b.ID); err != nil {
			return fmt.Errorf("release earning: %w", err)
		}
	}
	return nil
}

// ResolveReference finds a booking by invoice number, falling back to a
// numeric booking id.
func (s *service) ResolveReference(ctx context.Context, ref string) (*Booking, error) {
	ref = strings.TrimSpace(ref)
	b, err := s.repo.GetByInvoiceNumber(ctx, ref)
	if err == nil || !errors.Is(err, ErrBookingNotFound) {
		return b, err
	}
	id, convErr := strconv.Atoi(ref)
	if convErr != nil || id <= 0 {
		return nil, ErrBookingNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) notify(ctx context.Context, userID int, event string, b *Booking) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, event, map[string]string{
		"booking_id":     strconv.Itoa(b.ID),
		"invoice_number": b.InvoiceNumber,
		"start":          b.Start.Format(time.RFC3339),
		"end":            b.End.Format(time.RFC3339),
		"total":          b.TotalPrice.StringFixed(moneyPlaces),
		"currency":       b.Currency,
		"status":         b.Status,
	})
}
