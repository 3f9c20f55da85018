package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookableFunc func(ctx context.Context, carID int, w Window) (*car.Car, error)

func (f bookableFunc) IsBookable(ctx context.Context, carID int, w Window) (*car.Car, error) {
	return f(ctx, carID, w)
}

func serveCheck(p Querier, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cars/:carID/availability", NewHandler(p).Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_Get(t *testing.T) {
	const window = "?start=2026-10-19T10:00:00Z&end=2026-10-19T12:00:00Z"

	t.Run("available", func(t *testing.T) {
		w := serveCheck(bookableFunc(func(context.Context, int, Window) (*car.Car, error) {
			return &car.Car{ID: 1}, nil
		}), "/cars/1/availability"+window)

		require.Equal(t, http.StatusOK, w.Code)
		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Available)
	})

	t.Run("rejected with reason", func(t *testing.T) {
		w := serveCheck(bookableFunc(func(context.Context, int, Window) (*car.Car, error) {
			return &car.Car{ID: 1}, reject(DayNotAllowed)
		}), "/cars/1/availability"+window)

		require.Equal(t, http.StatusOK, w.Code)
		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Available)
		assert.Equal(t, DayNotAllowed, resp.Reason)
	})

	t.Run("unknown car", func(t *testing.T) {
		w := serveCheck(bookableFunc(func(context.Context, int, Window) (*car.Car, error) {
			return nil, car.ErrCarNotFound
		}), "/cars/7/availability"+window)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("inverted window", func(t *testing.T) {
		w := serveCheck(bookableFunc(func(context.Context, int, Window) (*car.Car, error) {
			t.Fatal("checker must not be called")
			return nil, nil
		}), "/cars/1/availability?start=2026-10-19T12:00:00Z&end=2026-10-19T10:00:00Z")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
