package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int) (*user.User, error)
}

type message struct {
	subject string
	body    string
}

// Notifier turns domain events into queued emails. It never returns an
// error: a user lookup or queue failure is logged and the event is dropped.
type Notifier struct {
	emails  *Service
	users   UserLookup
	brand   string
	timeout time.Duration
}

func NewNotifier(emails *Service, users UserLookup, brand string) *Notifier {
	if brand == "" {
		brand = "SwiftRide"
	}
	return &Notifier{emails: emails, users: users, brand: brand, timeout: 3 * time.Second}
}

func (n *Notifier) Notify(ctx context.Context, userID int, event string, payload map[string]string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	u, err := n.users.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("notification dropped: user lookup failed", "event", event, "user_id", userID, "error", err)
		return
	}

	msg, ok := compose(event, u.Name, n.brand, payload)
	if !ok {
		logger.Warn("notification dropped: unknown event", "event", event, "user_id", userID)
		return
	}

	if err := n.emails.Send(ctx, event, u.Email, u.Name, msg.subject, msg.body); err != nil {
		logger.Warn("notification dropped: queue failed", "event", event, "user_id", userID, "error", err)
	}
}

func compose(event, name, brand string, p map[string]string) (message, bool) {
	var m message
	switch event {
	case "booking_created":
		m.subject = "New booking request " + p["invoice_number"]
		m.body = fmt.Sprintf("A customer has requested your car from %s to %s.\nTotal: %s %s\n\nOpen your dashboard to review it.",
			p["start"], p["end"], p["currency"], p["total"])
	case "booking_confirmed":
		m.subject = "Booking confirmed " + p["invoice_number"]
		m.body = fmt.Sprintf("Your booking from %s to %s is confirmed.\nTotal: %s %s\n\nShow your handover code to the host at pick-up.",
			p["start"], p["end"], p["currency"], p["total"])
	case "booking_cancelled":
		m.subject = "Booking cancelled " + p["invoice_number"]
		m.body = fmt.Sprintf("Booking %s (%s to %s) has been cancelled.", p["invoice_number"], p["start"], p["end"])
	case "booking_completed":
		m.subject = "Trip completed " + p["invoice_number"]
		m.body = fmt.Sprintf("Your trip ending %s is complete. Thanks for riding with %s.", p["end"], brand)
	case "withdrawal_approved":
		m.subject = "Withdrawal approved"
		m.body = fmt.Sprintf("Your withdrawal of %s %s has been paid out.", p["currency"], p["amount"])
		if ref := p["reference"]; ref != "" {
			m.body += "\nReference: " + ref
		}
	case "withdrawal_rejected":
		m.subject = "Withdrawal rejected"
		m.body = fmt.Sprintf("Your withdrawal of %s %s was rejected and the amount is back in your wallet.", p["currency"], p["amount"])
		if note := p["note"]; note != "" {
			m.body += "\nNote: " + note
		}
	default:
		return message{}, false
	}

	m.body = fmt.Sprintf("Hi %s,\n\n%s\n\n- %s Team", strings.TrimSpace(name), m.body, brand)
	return m, true
}
