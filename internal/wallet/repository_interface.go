package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// EnsureWallet creates the user's wallet if it does not exist yet.
	EnsureWallet(ctx context.Context, userID int, currency string) (*Wallet, error)
	GetWallet(ctx context.Context, userID int) (*Wallet, error)
	// ApplyDelta adds the deltas to both balances in one statement. It
	// returns ErrInsufficientFunds when either balance would go negative.
	ApplyDelta(ctx context.Context, userID int, available, pending decimal.Decimal) (*Wallet, error)

	InsertTransaction(ctx context.Context, t *Transaction) (*Transaction, error)
	UpdateTransaction(ctx context.Context, t *Transaction) error
	GetTransactionForUpdate(ctx context.Context, id int64) (*Transaction, error)
	GetEarningForUpdate(ctx context.Context, bookingID int) (*Transaction, error)
	ListTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
	AllTransactions(ctx context.Context, userID int) ([]Transaction, error)
	ListByStatus(ctx context.Context, userID int, txType, status string) ([]Transaction, error)

	CreateWithdrawal(ctx context.Context, w *WithdrawalRequest) (*WithdrawalRequest, error)
	GetWithdrawalForUpdate(ctx context.Context, id int) (*WithdrawalRequest, error)
	UpdateWithdrawal(ctx context.Context, w *WithdrawalRequest) error
	ListWithdrawalsByUser(ctx context.Context, userID int) ([]WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, status string, limit, offset int) ([]WithdrawalRequest, error)
}
