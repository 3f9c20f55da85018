// Package payment talks to the hosted checkout gateway. It signs checkout
// payloads, verifies the signature on gateway callbacks and hands verified
// results to the booking service, which records them idempotently.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"

	"github.com/shopspring/decimal"
)

const Provider = "EASYPAISA"

var (
	ErrGatewayNotConfigured = apperr.New(apperr.KindExternal, "payment_gateway_not_configured", "Payment gateway is not configured")
	ErrInvalidSignature     = apperr.New(apperr.KindExternal, "invalid_payment_signature", "Invalid payment signature")
	ErrMissingReference     = apperr.Validation("missing_order_reference", "orderRefNum is required")
	ErrInvalidAmount        = apperr.Validation("invalid_payment_amount", "amount must be a decimal number")
)

var successCodes = map[string]bool{"0000": true, "00": true}

type Config struct {
	BaseURL     string
	MerchantID  string
	StoreID     string
	HashKey     string
	Currency    string
	ReturnURL   string
	CallbackURL string
}

type Checkout struct {
	Provider       string  `json:"provider" example:"EASYPAISA"`
	PaymentPageURL string  `json:"payment_page_url"`
	Payload        Payload `json:"payload"`
}

// Payload is posted by the client to the gateway's payment page.
type Payload struct {
	MerchantID  string `json:"merchantId"`
	StoreID     string `json:"storeId"`
	Amount      string `json:"amount" example:"208.33"`
	Currency    string `json:"currency" example:"PKR"`
	OrderRefNum string `json:"orderRefNum" example:"INV-20261020-3F9A1C0B7D"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CallbackURL string `json:"callbackUrl"`
	Hash        string `json:"hash"`
}

// Callback is what the gateway delivers for a payment attempt. It may arrive
// as JSON, a form post or a query string.
type Callback struct {
	OrderRefNum   string `json:"orderRefNum" form:"orderRefNum" validate:"required,max=64"`
	TransactionID string `json:"transactionId" form:"transactionId" validate:"max=128"`
	Amount        string `json:"amount" form:"amount" validate:"required"`
	Currency      string `json:"currency" form:"currency"`
	ResponseCode  string `json:"responseCode" form:"responseCode" validate:"required"`
	Hash          string `json:"hash" form:"hash" validate:"required,hexadecimal"`
}

func (cb Callback) Success() bool {
	return successCodes[strings.TrimSpace(cb.ResponseCode)]
}

type CallbackResult struct {
	BookingID      int    `json:"booking_id"`
	Success        bool   `json:"success"`
	Duplicate      bool   `json:"duplicate"`
	AmountMismatch bool   `json:"amount_mismatch,omitempty"`
	PaymentStatus  string `json:"payment_status" example:"paid"`
}

type Bookings interface {
	StartPayment(ctx context.Context, bookingID, customerID int) (*booking.Booking, error)
	RecordPayment(ctx context.Context, res booking.PaymentResult) (*booking.PaymentOutcome, error)
	ResolveReference(ctx context.Context, ref string) (*booking.Booking, error)
}

type Service interface {
	Init(ctx context.Context, bookingID, customerID int) (*Checkout, error)
	HandleCallback(ctx context.Context, cb Callback) (*CallbackResult, error)
}

type service struct {
	cfg      Config
	bookings Bookings
}

func NewService(cfg Config, bookings Bookings) Service {
	if cfg.Currency == "" {
		cfg.Currency = "PKR"
	}
	return &service{cfg: cfg, bookings: bookings}
}

// Sign computes the hex HMAC-SHA256 over the gateway fields joined with '&'
// in the order merchantId, storeId, amount, currency, orderRefNum, returnUrl,
// callbackUrl. Empty fields are skipped.
func (c Config) Sign(amount, currency, orderRefNum string) string {
	fields := []string{c.MerchantID, c.StoreID, amount, currency, orderRefNum, c.ReturnURL, c.CallbackURL}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}

	mac := hmac.New(sha256.New, []byte(c.HashKey))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c Config) Verify(cb Callback) bool {
	want := c.Sign(cb.Amount, cb.Currency, cb.OrderRefNum)
	got := strings.ToLower(strings.TrimSpace(cb.Hash))
	return hmac.Equal([]byte(want), []byte(got))
}

func (s *service) configured() bool {
	return s.cfg.HashKey != "" && s.cfg.MerchantID != "" && s.cfg.BaseURL != ""
}

func (s *service) Init(ctx context.Context, bookingID, customerID int) (*Checkout, error) {
	if !s.configured() {
		return nil, ErrGatewayNotConfigured
	}

	b, err := s.bookings.StartPayment(ctx, bookingID, customerID)
	if err != nil {
		return nil, err
	}

	// The checkout charges the balance still open, to the paisa. The callback
	// must echo the same figure.
	amount := b.PaymentDue.Decimal.StringFixed(2)
	ref := b.InvoiceNumber
	if ref == "" {
		ref = strconv.Itoa(b.ID)
	}

	p := Payload{
		MerchantID:  s.cfg.MerchantID,
		StoreID:     s.cfg.StoreID,
		Amount:      amount,
		Currency:    s.cfg.Currency,
		OrderRefNum: ref,
		Description: "Booking " + strconv.Itoa(b.ID) + " - " + b.InvoiceNumber,
		ReturnURL:   s.cfg.ReturnURL,
		CallbackURL: s.cfg.CallbackURL,
	}
	p.Hash = s.cfg.Sign(p.Amount, p.Currency, p.OrderRefNum)

	logger.Info("payment checkout created", "booking_id", b.ID, "user_id", customerID, "amount", amount, "ref", ref)
	return &Checkout{Provider: Provider, PaymentPageURL: s.cfg.BaseURL, Payload: p}, nil
}

func (s *service) HandleCallback(ctx context.Context, cb Callback) (*CallbackResult, error) {
	if !s.configured() {
		return nil, ErrGatewayNotConfigured
	}
	if strings.TrimSpace(cb.OrderRefNum) == "" {
		return nil, ErrMissingReference
	}
	if !s.cfg.Verify(cb) {
		logger.Warn("payment callback rejected", "ref", cb.OrderRefNum, "reason", "signature mismatch")
		return nil, ErrInvalidSignature
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(cb.Amount))
	if err != nil {
		return nil, ErrInvalidAmount
	}

	b, err := s.bookings.ResolveReference(ctx, cb.OrderRefNum)
	if err != nil {
		return nil, err
	}

	out, err := s.bookings.RecordPayment(ctx, booking.PaymentResult{
		BookingID:   b.ID,
		Success:     cb.Success(),
		ProviderRef: strings.TrimSpace(cb.TransactionID),
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}
	if out.AmountMismatch {
		logger.Warn("payment callback amount mismatch", "booking_id", b.ID, "ref", cb.OrderRefNum, "amount", amount.String())
	}

	return &CallbackResult{
		BookingID:      out.Booking.ID,
		Success:        cb.Success() && !out.AmountMismatch,
		Duplicate:      out.Duplicate,
		AmountMismatch: out.AmountMismatch,
		PaymentStatus:  out.Booking.PaymentStatus,
	}, nil
}
