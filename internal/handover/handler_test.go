package handover

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Scan(ctx context.Context, hostID int, code string) (*ScanResult, error) {
	args := m.Called(ctx, hostID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ScanResult), args.Error(1)
}

func (m *MockService) SubmitPickup(ctx context.Context, hostID int, req PhotosRequest) (*booking.Booking, error) {
	args := m.Called(ctx, hostID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockService) SubmitReturn(ctx context.Context, hostID int, req PhotosRequest) (*booking.Booking, error) {
	args := m.Called(ctx, hostID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetIdentity(c, auth.Identity{UserID: hostID, Role: "host"})
		c.Next()
	})
	r.POST("/handover/scan", h.Scan)
	r.POST("/handover/pickup", h.Pickup)
	r.POST("/handover/return", h.Return)
	return r
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Scan(t *testing.T) {
	svc := new(MockService)
	svc.On("Scan", mock.Anything, hostID, code).
		Return(&ScanResult{Step: StepPickup, Booking: confirmedBooking()}, nil)

	w := post(newRouter(NewHandler(svc)), "/handover/scan", ScanRequest{Code: code})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"pickup"`)
	assert.NotContains(t, w.Body.String(), code)
}

func TestHandler_Scan_BadBody(t *testing.T) {
	svc := new(MockService)

	w := post(newRouter(NewHandler(svc)), "/handover/scan", ScanRequest{Code: "short"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "short")
	svc.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Pickup(t *testing.T) {
	svc := new(MockService)
	req := PhotosRequest{BookingID: 1, Photos: photos(4)}
	ongoing := confirmedBooking()
	ongoing.Status = booking.StatusOngoing
	svc.On("SubmitPickup", mock.Anything, hostID, req).Return(ongoing, nil)

	r := newRouter(NewHandler(svc))

	w := post(r, "/handover/pickup", req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(r, "/handover/pickup", PhotosRequest{BookingID: 1, Photos: photos(2)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Return_Conflict(t *testing.T) {
	svc := new(MockService)
	req := PhotosRequest{BookingID: 1, Photos: photos(4)}
	svc.On("SubmitReturn", mock.Anything, hostID, req).Return(nil, ErrScanRequired)

	w := post(newRouter(NewHandler(svc)), "/handover/return", req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
