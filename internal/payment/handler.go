package payment

import (
	"net/http"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/api"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/booking"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Init godoc
// @Summary      Start paying for a booking
// @Description  Moves the booking to payment processing and returns the signed payload the client posts to the gateway.
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} payment.Checkout
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/pay [post]
func (h *Handler) Init(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, ok := booking.BookingIDParam(c)
	if !ok {
		return
	}

	checkout, err := h.service.Init(c.Request.Context(), bookingID, userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkout)
}

// Callback godoc
// @Summary      Gateway payment callback
// @Description  Called by the payment gateway. The signature is verified before the result is recorded; repeated deliveries are harmless.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body payment.Callback true "Gateway result"
// @Success      200 {object} payment.CallbackResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /payments/callback [post]
func (h *Handler) Callback(c *gin.Context) {
	var cb Callback
	if err := c.ShouldBind(&cb); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid callback payload"})
		return
	}
	if errs := api.ValidateStruct(cb); errs != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Error: "validation failed", Details: errs})
		return
	}

	res, err := h.service.HandleCallback(c.Request.Context(), cb)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
