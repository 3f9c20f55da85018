package handover

import (
	"context"
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

// Scan godoc
// @Summary      Scan handover code
// @Description  Host scans the code shown by the customer. Returns which step (pickup or return) the booking is at.
// @Tags         handover
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handover.ScanRequest true "Handover code"
// @Success      200 {object} handover.ScanResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /handover/scan [post]
func (h *Handler) Scan(c *gin.Context) {
	hostID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid handover code"})
		return
	}

	res, err := h.service.Scan(c.Request.Context(), hostID, req.Code)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Pickup godoc
// @Summary      Submit pickup photos
// @Description  Host submits at least 4 photos after scanning. The trip starts.
// @Tags         handover
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handover.PhotosRequest true "Photo references"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /handover/pickup [post]
func (h *Handler) Pickup(c *gin.Context) {
	h.submit(c, h.service.SubmitPickup)
}

// Return godoc
// @Summary      Submit return photos
// @Description  Host submits at least 4 photos after scanning on return. The booking completes and the owner's earning is released.
// @Tags         handover
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handover.PhotosRequest true "Photo references"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /handover/return [post]
func (h *Handler) Return(c *gin.Context) {
	h.submit(c, h.service.SubmitReturn)
}

func (h *Handler) submit(c *gin.Context, fn func(ctx context.Context, hostID int, req PhotosRequest) (*booking.Booking, error)) {
	hostID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req PhotosRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := fn(c.Request.Context(), hostID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
