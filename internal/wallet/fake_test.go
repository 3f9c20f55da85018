package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// memRepository is an in-memory Repository with the same atomicity rules as
// the Postgres one: ApplyDelta never lets a balance go negative and only one
// earning may exist per booking.
type memRepository struct {
	mu          sync.Mutex
	wallets     map[int]*Wallet
	txs         []*Transaction
	withdrawals []*WithdrawalRequest
}

func newMemRepository() *memRepository {
	return &memRepository{wallets: map[int]*Wallet{}}
}

func (m *memRepository) EnsureWallet(_ context.Context, userID int, currency string) (*Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		w = &Wallet{ID: len(m.wallets) + 1, UserID: userID, Currency: currency, CreatedAt: time.Now()}
		m.wallets[userID] = w
	}
	cp := *w
	return &cp, nil
}

func (m *memRepository) GetWallet(_ context.Context, userID int) (*Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memRepository) ApplyDelta(_ context.Context, userID int, available, pending decimal.Decimal) (*Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, ErrInsufficientFunds
	}
	na, np := w.BalanceAvailable.Add(available), w.BalancePending.Add(pending)
	if na.IsNegative() || np.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	w.BalanceAvailable, w.BalancePending = na, np
	cp := *w
	return &cp, nil
}

func (m *memRepository) InsertTransaction(_ context.Context, t *Transaction) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Type == TypeEarning && t.BookingID != nil {
		for _, x := range m.txs {
			if x.Type == TypeEarning && x.BookingID != nil && *x.BookingID == *t.BookingID {
				return nil, ErrEarningExists
			}
		}
	}
	cp := *t
	cp.ID = int64(len(m.txs) + 1)
	m.txs = append(m.txs, &cp)
	out := cp
	return &out, nil
}

func (m *memRepository) UpdateTransaction(_ context.Context, t *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.txs {
		if x.ID == t.ID {
			cp := *t
			m.txs[i] = &cp
			return nil
		}
	}
	return ErrTransactionNotFound
}

func (m *memRepository) GetTransactionForUpdate(_ context.Context, id int64) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.txs {
		if x.ID == id {
			cp := *x
			return &cp, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (m *memRepository) GetEarningForUpdate(_ context.Context, bookingID int) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.txs {
		if x.Type == TypeEarning && x.BookingID != nil && *x.BookingID == bookingID {
			cp := *x
			return &cp, nil
		}
	}
	return nil, ErrEarningNotFound
}

func (m *memRepository) ListTransactions(_ context.Context, userID, limit, offset int) ([]Transaction, error) {
	all, _ := m.AllTransactions(context.Background(), userID)
	out := []Transaction{}
	for i := len(all) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *memRepository) AllTransactions(_ context.Context, userID int) ([]Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Transaction{}
	for _, x := range m.txs {
		if x.UserID == userID {
			out = append(out, *x)
		}
	}
	return out, nil
}

func (m *memRepository) ListByStatus(_ context.Context, userID int, txType, status string) ([]Transaction, error) {
	all, _ := m.AllTransactions(context.Background(), userID)
	out := []Transaction{}
	for _, x := range all {
		if x.Type == txType && x.Status == status {
			out = append(out, x)
		}
	}
	return out, nil
}

func (m *memRepository) CreateWithdrawal(_ context.Context, w *WithdrawalRequest) (*WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	cp.ID = len(m.withdrawals) + 1
	m.withdrawals = append(m.withdrawals, &cp)
	out := cp
	return &out, nil
}

func (m *memRepository) GetWithdrawalForUpdate(_ context.Context, id int) (*WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.withdrawals {
		if x.ID == id {
			cp := *x
			return &cp, nil
		}
	}
	return nil, ErrWithdrawalNotFound
}

func (m *memRepository) UpdateWithdrawal(_ context.Context, w *WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.withdrawals {
		if x.ID == w.ID {
			cp := *w
			m.withdrawals[i] = &cp
			return nil
		}
	}
	return ErrWithdrawalNotFound
}

func (m *memRepository) ListWithdrawalsByUser(_ context.Context, userID int) ([]WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []WithdrawalRequest{}
	for _, x := range m.withdrawals {
		if x.UserID == userID {
			out = append(out, *x)
		}
	}
	return out, nil
}

func (m *memRepository) ListWithdrawals(_ context.Context, status string, limit, offset int) ([]WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []WithdrawalRequest{}
	for _, x := range m.withdrawals {
		if status == "" || x.Status == status {
			out = append(out, *x)
		}
	}
	return out, nil
}

// serialTransactor runs one unit of work at a time, standing in for the row
// locks the Postgres repository takes.
type serialTransactor struct {
	mu sync.Mutex
}

func (s *serialTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}
