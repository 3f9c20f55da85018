package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	walletColumns = `id, user_id, currency, balance_available, balance_pending, created_at, updated_at`

	transactionColumns = `id, wallet_id, user_id, booking_id, type, status, amount, currency, description,
		delta_available, delta_pending, balance_after_available, balance_after_pending, created_at, updated_at`

	withdrawalColumns = `id, user_id, wallet_transaction_id, amount, currency, status, bank_name,
		account_title, account_number, iban, admin_note, proof_reference, proof_date, resolved_at,
		created_at, updated_at`

	earningIndex = "uq_wallet_transactions_booking_earning"
)

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) EnsureWallet(ctx context.Context, userID int, currency string) (*Wallet, error) {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO wallets (user_id, currency) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, currency,
	)
	if err != nil {
		return nil, err
	}
	return r.GetWallet(ctx, userID)
}

func (r *postgresRepository) GetWallet(ctx context.Context, userID int) (*Wallet, error) {
	var w Wallet
	err := db.Conn(ctx, r.db).GetContext(ctx, &w, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *postgresRepository) ApplyDelta(ctx context.Context, userID int, available, pending decimal.Decimal) (*Wallet, error) {
	query := `
		UPDATE wallets
		SET balance_available = balance_available + $2,
			balance_pending = balance_pending + $3,
			updated_at = NOW()
		WHERE user_id = $1
			AND balance_available + $2 >= 0
			AND balance_pending + $3 >= 0
		RETURNING ` + walletColumns

	var w Wallet
	err := db.Conn(ctx, r.db).GetContext(ctx, &w, query, userID, available, pending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInsufficientFunds
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *postgresRepository) InsertTransaction(ctx context.Context, t *Transaction) (*Transaction, error) {
	query := `
		INSERT INTO wallet_transactions (wallet_id, user_id, booking_id, type, status, amount, currency,
			description, delta_available, delta_pending, balance_after_available, balance_after_pending)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + transactionColumns

	var created Transaction
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		t.WalletID, t.UserID, t.BookingID, t.Type, t.Status, t.Amount, t.Currency,
		t.Description, t.DeltaAvailable, t.DeltaPending, t.BalanceAfterAvailable, t.BalanceAfterPending,
	)
	if db.IsUniqueViolation(err, earningIndex) {
		return nil, ErrEarningExists
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepository) UpdateTransaction(ctx context.Context, t *Transaction) error {
	query := `
		UPDATE wallet_transactions
		SET status = $2, amount = $3, delta_available = $4, delta_pending = $5,
			balance_after_available = $6, balance_after_pending = $7, updated_at = NOW()
		WHERE id = $1`

	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query,
		t.ID, t.Status, t.Amount, t.DeltaAvailable, t.DeltaPending, t.BalanceAfterAvailable, t.BalanceAfterPending,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *postgresRepository) GetTransactionForUpdate(ctx context.Context, id int64) (*Transaction, error) {
	return r.getTransaction(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresRepository) GetEarningForUpdate(ctx context.Context, bookingID int) (*Transaction, error) {
	t, err := r.getTransaction(ctx,
		`SELECT `+transactionColumns+` FROM wallet_transactions WHERE booking_id = $1 AND type = 'earning' FOR UPDATE`,
		bookingID,
	)
	if errors.Is(err, ErrTransactionNotFound) {
		return nil, ErrEarningNotFound
	}
	return t, err
}

func (r *postgresRepository) getTransaction(ctx context.Context, query string, args ...interface{}) (*Transaction, error) {
	var t Transaction
	err := db.Conn(ctx, r.db).GetContext(ctx, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepository) ListTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`

	txs := []Transaction{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &txs, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *postgresRepository) AllTransactions(ctx context.Context, userID int) ([]Transaction, error) {
	txs := []Transaction{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &txs,
		`SELECT `+transactionColumns+` FROM wallet_transactions WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *postgresRepository) ListByStatus(ctx context.Context, userID int, txType, status string) ([]Transaction, error) {
	txs := []Transaction{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &txs,
		`SELECT `+transactionColumns+` FROM wallet_transactions WHERE user_id = $1 AND type = $2 AND status = $3 ORDER BY id`,
		userID, txType, status)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *postgresRepository) CreateWithdrawal(ctx context.Context, w *WithdrawalRequest) (*WithdrawalRequest, error) {
	query := `
		INSERT INTO withdrawal_requests (user_id, wallet_transaction_id, amount, currency, status,
			bank_name, account_title, account_number, iban)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + withdrawalColumns

	var created WithdrawalRequest
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		w.UserID, w.WalletTransactionID, w.Amount, w.Currency, w.Status,
		w.BankName, w.AccountTitle, w.AccountNumber, w.IBAN,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepository) GetWithdrawalForUpdate(ctx context.Context, id int) (*WithdrawalRequest, error) {
	var w WithdrawalRequest
	err := db.Conn(ctx, r.db).GetContext(ctx, &w,
		`SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *postgresRepository) UpdateWithdrawal(ctx context.Context, w *WithdrawalRequest) error {
	query := `
		UPDATE withdrawal_requests
		SET status = $2, admin_note = $3, proof_reference = $4, proof_date = $5,
			resolved_at = $6, updated_at = NOW()
		WHERE id = $1`

	_, err := db.Conn(ctx, r.db).ExecContext(ctx, query,
		w.ID, w.Status, w.AdminNote, w.ProofReference, w.ProofDate, w.ResolvedAt,
	)
	return err
}

func (r *postgresRepository) ListWithdrawalsByUser(ctx context.Context, userID int) ([]WithdrawalRequest, error) {
	out := []WithdrawalRequest{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &out,
		`SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE user_id = $1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepository) ListWithdrawals(ctx context.Context, status string, limit, offset int) ([]WithdrawalRequest, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests
		WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at
		LIMIT $2 OFFSET $3`

	out := []WithdrawalRequest{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query, status, limit, offset); err != nil {
		return nil, err
	}
	return out, nil
}
