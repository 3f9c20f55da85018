package booking

import (
	"net/http"
	"strconv"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/api"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Book a car
// @Description  Customer requests a car for a time window. The booking starts as pending and unpaid.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CreateBookingRequest true "Booking window"
// @Success      201 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ListMine godoc
// @Summary      My bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} booking.Booking
// @Router       /bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.ListForCustomer(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListOwner godoc
// @Summary      Bookings of my cars
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} booking.Booking
// @Router       /bookings/owner [get]
func (h *Handler) ListOwner(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// Get godoc
// @Summary      Booking detail
// @Description  Booking with status history and extensions. Visible to its customer and the car owner.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} booking.Detail
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := auth.Current(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	bookingID, ok := BookingIDParam(c)
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), bookingID, id.UserID, id.Role)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// UpdateStatus godoc
// @Summary      Change booking status
// @Description  Car owner moves the booking along pending, confirmed, ongoing, completed. Any active booking can be cancelled.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Param        request body booking.TransitionRequest true "Target status"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	bookingID, ok := BookingIDParam(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.TransitionStatus(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Extend godoc
// @Summary      Extend booking
// @Description  Customer moves the end of a confirmed or ongoing booking later. Each call adds one extension.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Param        request body booking.ExtendRequest true "New end"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/extend [post]
func (h *Handler) Extend(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	bookingID, ok := BookingIDParam(c)
	if !ok {
		return
	}

	var req ExtendRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Extend(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Customer cancels a pending or confirmed booking.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Param        request body booking.CancelRequest false "Optional note"
// @Success      200 {object} booking.Booking
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	bookingID, ok := BookingIDParam(c)
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	b, err := h.service.Cancel(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// BookingIDParam reads the bookingID path parameter and writes a 400 when
// it is not a positive integer.
func BookingIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return 0, false
	}
	return id, true
}
