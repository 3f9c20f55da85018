package email

import (
	"context"
	"testing"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

func bookingPayload() map[string]string {
	return map[string]string{
		"booking_id":     "1",
		"invoice_number": "INV-20261020-3F9A1C0B7D",
		"start":          "2026-10-20T10:00:00Z",
		"end":            "2026-10-20T15:00:00Z",
		"total":          "208.33",
		"currency":       "PKR",
	}
}

func TestCompose(t *testing.T) {
	events := []string{
		"booking_created", "booking_confirmed", "booking_cancelled", "booking_completed",
		"withdrawal_approved", "withdrawal_rejected",
	}
	for _, event := range events {
		t.Run(event, func(t *testing.T) {
			msg, ok := compose(event, "Ayesha", "SwiftRide", bookingPayload())
			assert.True(t, ok)
			assert.NotEmpty(t, msg.subject)
			assert.Contains(t, msg.body, "Hi Ayesha,")
			assert.Contains(t, msg.body, "- SwiftRide Team")
		})
	}

	_, ok := compose("unknown", "Ayesha", "SwiftRide", nil)
	assert.False(t, ok)
}

func TestCompose_BookingConfirmed(t *testing.T) {
	msg, _ := compose("booking_confirmed", "Ayesha", "SwiftRide", bookingPayload())

	assert.Equal(t, "Booking confirmed INV-20261020-3F9A1C0B7D", msg.subject)
	assert.Contains(t, msg.body, "PKR 208.33")
	assert.NotContains(t, msg.body, "handover_secret")
}

func TestCompose_WithdrawalRejectedNote(t *testing.T) {
	msg, _ := compose("withdrawal_rejected", "Bilal", "SwiftRide", map[string]string{
		"amount": "500.00", "currency": "PKR", "note": "bank details invalid",
	})

	assert.Contains(t, msg.body, "PKR 500.00")
	assert.Contains(t, msg.body, "Note: bank details invalid")
}

func TestNotifier_Notify(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	redisMock.Regexp().ExpectLPush(QueueKey, `.*`).SetVal(1)
	users := new(MockUsers)
	users.On("GetByID", mock.Anything, 5).Return(&user.User{ID: 5, Name: "Ayesha", Email: "ayesha@example.com"}, nil)

	NewNotifier(newTestService(db), users, "").Notify(context.Background(), 5, "booking_confirmed", bookingPayload())

	assert.NoError(t, redisMock.ExpectationsWereMet())
	users.AssertExpectations(t)
}

func TestNotifier_SurvivesCancelledCaller(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	redisMock.Regexp().ExpectLPush(QueueKey, `.*`).SetVal(1)
	users := new(MockUsers)
	users.On("GetByID", mock.Anything, 5).Return(&user.User{ID: 5, Name: "Ayesha", Email: "ayesha@example.com"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewNotifier(newTestService(db), users, "").Notify(ctx, 5, "booking_completed", bookingPayload())

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestNotifier_DropsOnLookupFailure(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	users := new(MockUsers)
	users.On("GetByID", mock.Anything, 5).Return(nil, user.ErrUserNotFound)

	assert.NotPanics(t, func() {
		NewNotifier(newTestService(db), users, "").Notify(context.Background(), 5, "booking_confirmed", bookingPayload())
	})
	assert.NoError(t, redisMock.ExpectationsWereMet())
	users.AssertExpectations(t)
}

func TestNotifier_DropsUnknownEvent(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	users := new(MockUsers)
	users.On("GetByID", mock.Anything, 5).Return(&user.User{ID: 5, Email: "ayesha@example.com"}, nil)

	NewNotifier(newTestService(db), users, "").Notify(context.Background(), 5, "something_else", nil)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}
