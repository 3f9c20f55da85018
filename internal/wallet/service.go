package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/metrics"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = apperr.NotFound("wallet_not_found", "wallet not found")
	ErrTransactionNotFound = apperr.NotFound("transaction_not_found", "wallet transaction not found")
	ErrEarningNotFound     = apperr.NotFound("earning_not_found", "no earning recorded for booking")
	ErrWithdrawalNotFound  = apperr.NotFound("withdrawal_not_found", "withdrawal request not found")
	ErrEarningExists       = apperr.Conflict("earning_exists", "earning already recorded for booking")
	ErrEarningReversed     = apperr.Conflict("earning_reversed", "booking earning was reversed")
	ErrInsufficientFunds   = apperr.Conflict("insufficient_funds", "insufficient available balance")
	ErrWithdrawalResolved  = apperr.Conflict("withdrawal_resolved", "withdrawal request already resolved")
	ErrInvalidAmount       = apperr.Validation("invalid_amount", "amount must be positive")
)

const (
	moneyPlaces         = 2
	defaultTxPageSize   = 50
	EventWithdrawalPaid = "withdrawal_approved"
	EventWithdrawalDeny = "withdrawal_rejected"
)

// Notifier delivers user notifications. Implementations must not block on
// delivery.
type Notifier interface {
	Notify(ctx context.Context, userID int, event string, payload map[string]string)
}

type Service interface {
	GetWallet(ctx context.Context, userID int) (*Wallet, error)
	ListTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
	PendingEarnings(ctx context.Context, userID int) ([]Transaction, error)
	VerifyLedger(ctx context.Context, userID int) (*LedgerReport, error)

	CreateBookingEarning(ctx context.Context, in EarningInput) (*Earning, error)
	AddToBookingEarning(ctx context.Context, in EarningInput) (*Earning, error)
	ReleaseBookingEarning(ctx context.Context, bookingID int) (*Transaction, error)
	ReverseBookingEarning(ctx context.Context, bookingID int) (*Transaction, error)

	RequestWithdrawal(ctx context.Context, userID int, req WithdrawRequest) (*WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, requestID int, req ApproveWithdrawalRequest) (*WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, requestID int, req RejectWithdrawalRequest) (*WithdrawalRequest, error)
	ListMyWithdrawals(ctx context.Context, userID int) ([]WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, status string, limit, offset int) ([]WithdrawalRequest, error)
}

type Options struct {
	CommissionPercent decimal.Decimal
	Currency          string
}

type service struct {
	repo     Repository
	tx       db.Transactor
	notifier Notifier
	opts     Options
	now      func() time.Time
}

func NewService(repo Repository, tx db.Transactor, notifier Notifier, opts Options) Service {
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// SplitEarning returns the platform commission and the owner's share of
// total. Both are rounded to cents and always sum to total.
func SplitEarning(total, commissionPercent decimal.Decimal) (commission, ownerEarning decimal.Decimal) {
	commission = total.Mul(commissionPercent).Div(decimal.NewFromInt(100)).Round(moneyPlaces)
	return commission, total.Sub(commission)
}

func (s *service) GetWallet(ctx context.Context, userID int) (*Wallet, error) {
	return s.repo.EnsureWallet(ctx, userID, s.opts.Currency)
}

func (s *service) ListTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 || limit > defaultTxPageSize {
		limit = defaultTxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}

func (s *service) PendingEarnings(ctx context.Context, userID int) ([]Transaction, error) {
	return s.repo.ListByStatus(ctx, userID, TypeEarning, StatusPending)
}

func (s *service) commissionFor(in EarningInput) decimal.Decimal {
	if in.CommissionPercent.Valid {
		return in.CommissionPercent.Decimal
	}
	return s.opts.CommissionPercent
}

func (s *service) split(in EarningInput) (*Earning, error) {
	total := in.TotalPrice.Round(moneyPlaces)
	if !total.IsPositive() {
		return nil, ErrInvalidAmount
	}
	percent := s.commissionFor(in)
	commission, ownerEarning := SplitEarning(total, percent)
	return &Earning{
		CommissionPercent: percent,
		CommissionAmount:  commission,
		OwnerEarning:      ownerEarning,
	}, nil
}

func (s *service) CreateBookingEarning(ctx context.Context, in EarningInput) (*Earning, error) {
	earning, err := s.split(in)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetEarningForUpdate(ctx, in.BookingID)
		if err == nil {
			return ErrEarningExists
		}
		if !errors.Is(err, ErrEarningNotFound) {
			return fmt.Errorf("lookup earning: %w", err)
		}
		earning.Transaction, err = s.insertEarning(ctx, in, earning.OwnerEarning)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordEarning("created")
	logger.Info("booking earning created",
		"booking_id", in.BookingID,
		"user_id", in.OwnerID,
		"amount", earning.OwnerEarning.String(),
		"commission", earning.CommissionAmount.String(),
	)
	return earning, nil
}

// AddToBookingEarning credits a further captured amount for a booking that
// already has an earning. The owner's share joins the earning in whatever
// state it is in: pending stays pending, released goes straight to the
// available balance. A booking without an earning gets a new one.
func (s *service) AddToBookingEarning(ctx context.Context, in EarningInput) (*Earning, error) {
	earning, err := s.split(in)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetEarningForUpdate(ctx, in.BookingID)
		if errors.Is(err, ErrEarningNotFound) {
			earning.Transaction, err = s.insertEarning(ctx, in, earning.OwnerEarning)
			return err
		}
		if err != nil {
			return fmt.Errorf("lookup earning: %w", err)
		}
		if !earning.OwnerEarning.IsPositive() {
			earning.Transaction = t
			return nil
		}

		available, pending := decimal.Zero, decimal.Zero
		switch t.Status {
		case StatusPending:
			pending = earning.OwnerEarning
		case StatusAvailable:
			available = earning.OwnerEarning
		default:
			return ErrEarningReversed
		}

		w, err := s.repo.ApplyDelta(ctx, t.UserID, available, pending)
		if err != nil {
			return fmt.Errorf("credit earning: %w", err)
		}
		t.Amount = t.Amount.Add(earning.OwnerEarning)
		t.DeltaAvailable = t.DeltaAvailable.Add(available)
		t.DeltaPending = t.DeltaPending.Add(pending)
		t.BalanceAfterAvailable = w.BalanceAvailable
		t.BalanceAfterPending = w.BalancePending
		if err := s.repo.UpdateTransaction(ctx, t); err != nil {
			return fmt.Errorf("update earning: %w", err)
		}
		earning.Transaction = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordEarning("topped_up")
	logger.Info("booking earning increased",
		"booking_id", in.BookingID,
		"user_id", in.OwnerID,
		"amount", earning.OwnerEarning.String(),
		"commission", earning.CommissionAmount.String(),
	)
	return earning, nil
}

// insertEarning credits ownerEarning to the owner's pending balance and
// records the earning transaction. Nothing is written for a zero share.
func (s *service) insertEarning(ctx context.Context, in EarningInput, ownerEarning decimal.Decimal) (*Transaction, error) {
	if !ownerEarning.IsPositive() {
		return nil, nil
	}

	currency := in.Currency
	if currency == "" {
		currency = s.opts.Currency
	}

	w, err := s.repo.EnsureWallet(ctx, in.OwnerID, currency)
	if err != nil {
		return nil, fmt.Errorf("ensure wallet: %w", err)
	}
	w, err = s.repo.ApplyDelta(ctx, in.OwnerID, decimal.Zero, ownerEarning)
	if err != nil {
		return nil, fmt.Errorf("credit pending: %w", err)
	}

	bookingID := in.BookingID
	return s.repo.InsertTransaction(ctx, &Transaction{
		WalletID:              w.ID,
		UserID:                in.OwnerID,
		BookingID:             &bookingID,
		Type:                  TypeEarning,
		Status:                StatusPending,
		Amount:                ownerEarning,
		Currency:              currency,
		Description:           fmt.Sprintf("Earning for booking #%d", in.BookingID),
		DeltaPending:          ownerEarning,
		BalanceAfterAvailable: w.BalanceAvailable,
		BalanceAfterPending:   w.BalancePending,
	})
}

// ReleaseBookingEarning moves a pending earning into the available balance.
// It returns nil without error when there is nothing pending to release.
func (s *service) ReleaseBookingEarning(ctx context.Context, bookingID int) (*Transaction, error) {
	var released *Transaction

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetEarningForUpdate(ctx, bookingID)
		if errors.Is(err, ErrEarningNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup earning: %w", err)
		}
		if t.Status != StatusPending || !t.Amount.IsPositive() {
			return nil
		}

		w, err := s.repo.ApplyDelta(ctx, t.UserID, t.Amount, t.Amount.Neg())
		if err != nil {
			// Pending below a recorded pending earning means the ledger is broken.
			return fmt.Errorf("release earning %d: %w", t.ID, asInternal(err))
		}

		t.Status = StatusAvailable
		t.DeltaAvailable = t.DeltaAvailable.Add(t.Amount)
		t.DeltaPending = t.DeltaPending.Sub(t.Amount)
		t.BalanceAfterAvailable = w.BalanceAvailable
		t.BalanceAfterPending = w.BalancePending
		if err := s.repo.UpdateTransaction(ctx, t); err != nil {
			return fmt.Errorf("update earning: %w", err)
		}

		released = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if released != nil {
		metrics.RecordEarning("released")
		logger.Info("booking earning released",
			"booking_id", bookingID,
			"user_id", released.UserID,
			"amount", released.Amount.String(),
		)
	}
	return released, nil
}

// ReverseBookingEarning removes a still-pending earning from the owner's
// wallet. Earnings that were already released are left untouched.
func (s *service) ReverseBookingEarning(ctx context.Context, bookingID int) (*Transaction, error) {
	var reversed *Transaction

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetEarningForUpdate(ctx, bookingID)
		if errors.Is(err, ErrEarningNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup earning: %w", err)
		}
		if t.Status != StatusPending {
			return nil
		}

		w, err := s.repo.ApplyDelta(ctx, t.UserID, decimal.Zero, t.Amount.Neg())
		if err != nil {
			return fmt.Errorf("reverse earning %d: %w", t.ID, asInternal(err))
		}

		t.Status = StatusReversed
		t.DeltaPending = t.DeltaPending.Sub(t.Amount)
		t.BalanceAfterAvailable = w.BalanceAvailable
		t.BalanceAfterPending = w.BalancePending
		if err := s.repo.UpdateTransaction(ctx, t); err != nil {
			return fmt.Errorf("update earning: %w", err)
		}

		reversed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reversed != nil {
		metrics.RecordEarning("reversed")
		logger.Info("booking earning reversed",
			"booking_id", bookingID,
			"user_id", reversed.UserID,
			"amount", reversed.Amount.String(),
		)
	}
	return reversed, nil
}

func (s *service) RequestWithdrawal(ctx context.Context, userID int, req WithdrawRequest) (*WithdrawalRequest, error) {
	amount := req.Amount.Round(moneyPlaces)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var created *WithdrawalRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.repo.EnsureWallet(ctx, userID, s.opts.Currency)
		if err != nil {
			return fmt.Errorf("ensure wallet: %w", err)
		}

		w, err = s.repo.ApplyDelta(ctx, userID, amount.Neg(), decimal.Zero)
		if err != nil {
			return err
		}

		t, err := s.repo.InsertTransaction(ctx, &Transaction{
			WalletID:              w.ID,
			UserID:                userID,
			Type:                  TypePayout,
			Status:                StatusProcessing,
			Amount:                amount,
			Currency:              w.Currency,
			Description:           "Withdrawal to " + strings.TrimSpace(req.BankName),
			DeltaAvailable:        amount.Neg(),
			BalanceAfterAvailable: w.BalanceAvailable,
			BalanceAfterPending:   w.BalancePending,
		})
		if err != nil {
			return fmt.Errorf("insert payout: %w", err)
		}

		created, err = s.repo.CreateWithdrawal(ctx, &WithdrawalRequest{
			UserID:              userID,
			WalletTransactionID: t.ID,
			Amount:              amount,
			Currency:            w.Currency,
			Status:              WithdrawalPending,
			BankName:            strings.TrimSpace(req.BankName),
			AccountTitle:        strings.TrimSpace(req.AccountTitle),
			AccountNumber:       strings.TrimSpace(req.AccountNumber),
			IBAN:                strings.TrimSpace(req.IBAN),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWithdrawal(WithdrawalPending)
	logger.Info("withdrawal requested", "user_id", userID, "request_id", created.ID, "amount", amount.String())
	return created, nil
}

func (s *service) ApproveWithdrawal(ctx context.Context, requestID int, req ApproveWithdrawalRequest) (*WithdrawalRequest, error) {
	var resolved *WithdrawalRequest

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.repo.GetWithdrawalForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if w.Status != WithdrawalPending {
			return ErrWithdrawalResolved
		}

		t, err := s.repo.GetTransactionForUpdate(ctx, w.WalletTransactionID)
		if err != nil {
			return fmt.Errorf("load payout: %w", err)
		}
		t.Status = StatusPaidOut
		if err := s.repo.UpdateTransaction(ctx, t); err != nil {
			return fmt.Errorf("update payout: %w", err)
		}

		now := s.now()
		proofDate := req.ProofDate
		if proofDate == nil {
			proofDate = &now
		}
		w.Status = WithdrawalApproved
		w.AdminNote = req.AdminNote
		w.ProofReference = req.ProofReference
		w.ProofDate = proofDate
		w.ResolvedAt = &now
		if err := s.repo.UpdateWithdrawal(ctx, w); err != nil {
			return fmt.Errorf("update withdrawal: %w", err)
		}

		resolved = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWithdrawal(WithdrawalApproved)
	logger.Info("withdrawal approved", "request_id", requestID, "user_id", resolved.UserID, "amount", resolved.Amount.String())
	s.notify(ctx, resolved.UserID, EventWithdrawalPaid, map[string]string{
		"amount":    resolved.Amount.StringFixed(moneyPlaces),
		"currency":  resolved.Currency,
		"reference": resolved.ProofReference,
	})
	return resolved, nil
}

func (s *service) RejectWithdrawal(ctx context.Context, requestID int, req RejectWithdrawalRequest) (*WithdrawalRequest, error) {
	var resolved *WithdrawalRequest

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.repo.GetWithdrawalForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if w.Status != WithdrawalPending {
			return ErrWithdrawalResolved
		}

		t, err := s.repo.GetTransactionForUpdate(ctx, w.WalletTransactionID)
		if err != nil {
			return fmt.Errorf("load payout: %w", err)
		}

		wallet, err := s.repo.ApplyDelta(ctx, w.UserID, w.Amount, decimal.Zero)
		if err != nil {
			return fmt.Errorf("refund withdrawal: %w", err)
		}

		t.Status = StatusDeclined
		t.DeltaAvailable = t.DeltaAvailable.Add(w.Amount)
		t.BalanceAfterAvailable = wallet.BalanceAvailable
		t.BalanceAfterPending = wallet.BalancePending
		if err := s.repo.UpdateTransaction(ctx, t); err != nil {
			return fmt.Errorf("update payout: %w", err)
		}

		now := s.now()
		w.Status = WithdrawalRejected
		w.AdminNote = req.AdminNote
		w.ResolvedAt = &now
		if err := s.repo.UpdateWithdrawal(ctx, w); err != nil {
			return fmt.Errorf("update withdrawal: %w", err)
		}

		resolved = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWithdrawal(WithdrawalRejected)
	logger.Info("withdrawal rejected", "request_id", requestID, "user_id", resolved.UserID, "amount", resolved.Amount.String())
	s.notify(ctx, resolved.UserID, EventWithdrawalDeny, map[string]string{
		"amount":   resolved.Amount.StringFixed(moneyPlaces),
		"currency": resolved.Currency,
		"note":     resolved.AdminNote,
	})
	return resolved, nil
}

func (s *service) ListMyWithdrawals(ctx context.Context, userID int) ([]WithdrawalRequest, error) {
	return s.repo.ListWithdrawalsByUser(ctx, userID)
}

func (s *service) ListWithdrawals(ctx context.Context, status string, limit, offset int) ([]WithdrawalRequest, error) {
	if limit <= 0 || limit > defaultTxPageSize {
		limit = defaultTxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListWithdrawals(ctx, status, limit, offset)
}

func (s *service) VerifyLedger(ctx context.Context, userID int) (*LedgerReport, error) {
	w, err := s.repo.EnsureWallet(ctx, userID, s.opts.Currency)
	if err != nil {
		return nil, err
	}
	txs, err := s.repo.AllTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	available, pending := Replay(txs)
	report := &LedgerReport{
		UserID:            userID,
		Entries:           len(txs),
		ReplayedAvailable: available,
		ReplayedPending:   pending,
		StoredAvailable:   w.BalanceAvailable,
		StoredPending:     w.BalancePending,
		Consistent:        available.Equal(w.BalanceAvailable) && pending.Equal(w.BalancePending),
	}
	if !report.Consistent {
		logger.Error("wallet ledger mismatch",
			"user_id", userID,
			"replayed_available", available.String(),
			"stored_available", w.BalanceAvailable.String(),
			"replayed_pending", pending.String(),
			"stored_pending", w.BalancePending.String(),
		)
	}
	return report, nil
}

// Replay folds the recorded deltas starting from a zero balance.
func Replay(txs []Transaction) (available, pending decimal.Decimal) {
	for _, t := range txs {
		available = available.Add(t.DeltaAvailable)
		pending = pending.Add(t.DeltaPending)
	}
	return available, pending
}

func (s *service) notify(ctx context.Context, userID int, event string, payload map[string]string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, event, payload)
	}
}

func asInternal(err error) error {
	if errors.Is(err, ErrInsufficientFunds) {
		return errors.New("wallet balance below recorded pending earning")
	}
	return err
}
