package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeEarning    = "earning"
	TypePayout     = "payout"
	TypeAdjustment = "adjustment"

	// Earning lifecycle.
	StatusPending   = "pending"
	StatusAvailable = "available"
	StatusReversed  = "reversed"

	// Payout lifecycle.
	StatusProcessing = "processing"
	StatusPaidOut    = "paid_out"
	StatusDeclined   = "declined"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

type Wallet struct {
	ID               int             `db:"id" json:"id"`
	UserID           int             `db:"user_id" json:"user_id"`
	Currency         string          `db:"currency" json:"currency"`
	BalanceAvailable decimal.Decimal `db:"balance_available" json:"balance_available" swaggertype:"string"`
	BalancePending   decimal.Decimal `db:"balance_pending" json:"balance_pending" swaggertype:"string"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction is one ledger entry. DeltaAvailable and DeltaPending hold the
// entry's net effect on the wallet so far; summing them over all entries
// reproduces the wallet balances.
type Transaction struct {
	ID                    int64           `db:"id" json:"id"`
	WalletID              int             `db:"wallet_id" json:"wallet_id"`
	UserID                int             `db:"user_id" json:"user_id"`
	BookingID             *int            `db:"booking_id" json:"booking_id,omitempty"`
	Type                  string          `db:"type" json:"type"`
	Status                string          `db:"status" json:"status"`
	Amount                decimal.Decimal `db:"amount" json:"amount" swaggertype:"string"`
	Currency              string          `db:"currency" json:"currency"`
	Description           string          `db:"description" json:"description"`
	DeltaAvailable        decimal.Decimal `db:"delta_available" json:"delta_available" swaggertype:"string"`
	DeltaPending          decimal.Decimal `db:"delta_pending" json:"delta_pending" swaggertype:"string"`
	BalanceAfterAvailable decimal.Decimal `db:"balance_after_available" json:"balance_after_available" swaggertype:"string"`
	BalanceAfterPending   decimal.Decimal `db:"balance_after_pending" json:"balance_after_pending" swaggertype:"string"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
}

type WithdrawalRequest struct {
	ID                  int             `db:"id" json:"id"`
	UserID              int             `db:"user_id" json:"user_id"`
	WalletTransactionID int64           `db:"wallet_transaction_id" json:"wallet_transaction_id"`
	Amount              decimal.Decimal `db:"amount" json:"amount" swaggertype:"string"`
	Currency            string          `db:"currency" json:"currency"`
	Status              string          `db:"status" json:"status"`
	BankName            string          `db:"bank_name" json:"bank_name"`
	AccountTitle        string          `db:"account_title" json:"account_title"`
	AccountNumber       string          `db:"account_number" json:"account_number"`
	IBAN                string          `db:"iban" json:"iban"`
	AdminNote           string          `db:"admin_note" json:"admin_note"`
	ProofReference      string          `db:"proof_reference" json:"proof_reference"`
	ProofDate           *time.Time      `db:"proof_date" json:"proof_date,omitempty"`
	ResolvedAt          *time.Time      `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// EarningInput describes a captured booking payment. CommissionPercent
// overrides the configured rate when set.
type EarningInput struct {
	BookingID         int
	OwnerID           int
	TotalPrice        decimal.Decimal
	Currency          string
	CommissionPercent decimal.NullDecimal
}

// Earning is the split computed for a booking. Transaction is nil when the
// owner's share rounds to zero.
type Earning struct {
	CommissionPercent decimal.Decimal
	CommissionAmount  decimal.Decimal
	OwnerEarning      decimal.Decimal
	Transaction       *Transaction
}

type LedgerReport struct {
	UserID            int             `json:"user_id"`
	Entries           int             `json:"entries"`
	ReplayedAvailable decimal.Decimal `json:"replayed_available" swaggertype:"string"`
	ReplayedPending   decimal.Decimal `json:"replayed_pending" swaggertype:"string"`
	StoredAvailable   decimal.Decimal `json:"stored_available" swaggertype:"string"`
	StoredPending     decimal.Decimal `json:"stored_pending" swaggertype:"string"`
	Consistent        bool            `json:"consistent"`
}

type WithdrawRequest struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	BankName      string          `json:"bank_name" binding:"required"`
	AccountTitle  string          `json:"account_title" binding:"required"`
	AccountNumber string          `json:"account_number" binding:"required"`
	IBAN          string          `json:"iban"`
}

type ApproveWithdrawalRequest struct {
	AdminNote      string     `json:"admin_note"`
	ProofReference string     `json:"proof_reference" binding:"required"`
	ProofDate      *time.Time `json:"proof_date"`
}

type RejectWithdrawalRequest struct {
	AdminNote string `json:"admin_note" binding:"required"`
}

type WalletResponse struct {
	Wallet       *Wallet       `json:"wallet"`
	Transactions []Transaction `json:"transactions"`
}
