package car

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9am", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCar_AllowsWeekday(t *testing.T) {
	c := &Car{DaysOfWeek: pq.Int64Array{1, 2, 3, 4, 5}}

	assert.True(t, c.AllowsWeekday(time.Monday))
	assert.False(t, c.AllowsWeekday(time.Sunday))
	assert.False(t, (&Car{}).AllowsWeekday(time.Monday))
}

func TestCar_TimeLocation(t *testing.T) {
	assert.Equal(t, "Asia/Karachi", (&Car{Timezone: "Asia/Karachi"}).TimeLocation().String())
	assert.Equal(t, time.UTC, (&Car{Timezone: "Nowhere/City"}).TimeLocation())
}

func TestCreateCarRequest_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req CreateCarRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, req)
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"empty", `{}`, http.StatusBadRequest},
		{"bad weekday", `{"title":"Civic","brand":"Honda","model":"Civic","year":2020,"plate_number":"LEA-1","location":"Lahore","price_per_day":"5000","days_of_week":[7]}`, http.StatusBadRequest},
		{"valid", `{"title":"Civic","brand":"Honda","model":"Civic","year":2020,"plate_number":"LEA-1","location":"Lahore","price_per_day":"5000"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
