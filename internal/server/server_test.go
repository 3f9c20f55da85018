package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/availability"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/config"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/handover"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/payment"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/review"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/user"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// Routes that reach a service are not exercised here; the handlers carry
// nil services and only the middleware in front of them runs.
func newTestServer(health map[string]Pinger) *Server {
	cfg := &config.Config{Environment: "test", Port: "0", JWTSecret: testSecret, RateLimitRPS: 1000, RateLimitBurst: 1000}
	return New(cfg, Handlers{
		Users:        user.NewHandler(nil),
		Cars:         car.NewHandler(nil),
		Availability: availability.NewHandler(nil),
		Bookings:     booking.NewHandler(nil),
		Handover:     handover.NewHandler(nil),
		Payments:     payment.NewHandler(nil),
		Reviews:      review.NewHandler(nil),
		Wallet:       wallet.NewHandler(nil),
		Health:       NewHealthHandler(health),
	})
}

func request(t *testing.T, s *Server, method, path, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, _, err := auth.GenerateTokens(auth.Identity{UserID: 1, Email: "u@example.com", Role: role}, testSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(map[string]Pinger{"database": PingFunc(func(context.Context) error { return nil })})

	w := request(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_HealthDependencyDown(t *testing.T) {
	s := newTestServer(map[string]Pinger{"redis": PingFunc(func(context.Context) error { return errors.New("refused") })})

	w := request(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis unavailable")
}

func TestServer_Metrics(t *testing.T) {
	w := request(t, newTestServer(nil), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swiftride_email_queue_length")
}

func TestServer_AuthRequired(t *testing.T) {
	s := newTestServer(nil)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/bookings"},
		{http.MethodGet, "/bookings/1"},
		{http.MethodPost, "/bookings/1/pay"},
		{http.MethodPost, "/reviews"},
		{http.MethodPost, "/handover/scan"},
		{http.MethodGet, "/wallet"},
		{http.MethodGet, "/admin/withdrawals"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, request(t, s, r.method, r.path, "").Code)
		})
	}
}

func TestServer_RoleChecks(t *testing.T) {
	s := newTestServer(nil)
	routes := []struct{ method, path, role string }{
		{http.MethodPost, "/bookings", user.RoleHost},
		{http.MethodPost, "/bookings/1/pay", user.RoleHost},
		{http.MethodPost, "/reviews", user.RoleHost},
		{http.MethodPatch, "/bookings/1/status", user.RoleCustomer},
		{http.MethodPost, "/handover/pickup", user.RoleCustomer},
		{http.MethodPost, "/cars", user.RoleCustomer},
		{http.MethodGet, "/admin/withdrawals", user.RoleHost},
		{http.MethodPatch, "/admin/users/1/kyc", user.RoleCustomer},
	}

	for _, r := range routes {
		t.Run(r.role+" "+r.method+" "+r.path, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, request(t, s, r.method, r.path, r.role).Code)
		})
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, request(t, newTestServer(nil), http.MethodGet, "/gyms", "").Code)
}
