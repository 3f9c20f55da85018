package availability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/api"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/car"

	"github.com/gin-gonic/gin"
)

type Querier interface {
	IsBookable(ctx context.Context, carID int, w Window) (*car.Car, error)
}

type Handler struct {
	checker Querier
}

func NewHandler(checker Querier) *Handler {
	return &Handler{checker: checker}
}

type Response struct {
	CarID     int    `json:"car_id"`
	Available bool   `json:"available"`
	Reason    Reason `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

// @Summary      Check car availability
// @Description  Reports whether the car can be booked for [start, end] and why not.
// @Tags         cars
// @Produce      json
// @Param        carID path  int    true "Car ID"
// @Param        start query string true "Window start (RFC3339)"
// @Param        end   query string true "Window end (RFC3339)"
// @Success      200 {object} availability.Response
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /cars/{carID}/availability [get]
func (h *Handler) Get(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("carID"))
	if err != nil || carID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid car id"})
		return
	}

	start, err1 := time.Parse(time.RFC3339, c.Query("start"))
	end, err2 := time.Parse(time.RFC3339, c.Query("end"))
	if err1 != nil || err2 != nil || !end.After(start) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "start and end must be RFC3339 with end after start"})
		return
	}

	_, err = h.checker.IsBookable(c.Request.Context(), carID, Window{Start: start, End: end})
	if err == nil {
		c.JSON(http.StatusOK, Response{CarID: carID, Available: true})
		return
	}

	if reason, ok := ReasonOf(err); ok {
		c.JSON(http.StatusOK, Response{CarID: carID, Reason: reason, Message: err.Error()})
		return
	}

	api.WriteError(c, err)
}
