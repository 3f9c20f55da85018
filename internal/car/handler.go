package car

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

// @Summary      List a car
// @Description  Host or showroom lists a new car. New listings wait for admin approval.
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body car.CreateCarRequest true "Car payload"
// @Success      201 {object} car.Car
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /cars [post]
func (h *Handler) Create(c *gin.Context) {
	id, ok := auth.Current(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateCarRequest
	if !api.BindJSON(c, &req) {
		return
	}

	car, err := h.service.Create(c.Request.Context(), id.UserID, id.Role, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, car)
}

// @Summary      List approved cars
// @Tags         cars
// @Produce      json
// @Param        limit   query int false "Page size (max 50)"
// @Param        offset  query int false "Offset"
// @Success      200 {array} car.Car
// @Router       /cars [get]
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	cars, err := h.service.ListApproved(c.Request.Context(), limit, offset)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, cars)
}

// @Summary      My cars
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} car.Car
// @Router       /cars/mine [get]
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	cars, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, cars)
}

// @Summary      Get car
// @Tags         cars
// @Produce      json
// @Param        carID path int true "Car ID"
// @Success      200 {object} car.Car
// @Failure      404 {object} api.ErrorResponse
// @Router       /cars/{carID} [get]
func (h *Handler) Get(c *gin.Context) {
	carID, ok := carIDParam(c)
	if !ok {
		return
	}

	car, err := h.service.GetByID(c.Request.Context(), carID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, car)
}

// @Summary      Update car availability
// @Description  Owner edits weekdays, daily window, timezone, insurance expiry and prices.
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        carID   path int true "Car ID"
// @Param        request body car.UpdateAvailabilityRequest true "Availability payload"
// @Success      200 {object} car.Car
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /cars/{carID}/availability [put]
func (h *Handler) UpdateAvailability(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	carID, ok := carIDParam(c)
	if !ok {
		return
	}

	var req UpdateAvailabilityRequest
	if !api.BindJSON(c, &req) {
		return
	}

	car, err := h.service.UpdateAvailability(c.Request.Context(), userID, carID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, car)
}

// @Summary      Set car approval status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        carID   path int true "Car ID"
// @Param        request body car.ApprovalRequest true "Approval payload"
// @Success      200 {object} car.Car
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/cars/{carID}/approval [patch]
func (h *Handler) SetApproval(c *gin.Context) {
	carID, ok := carIDParam(c)
	if !ok {
		return
	}

	var req ApprovalRequest
	if !api.BindJSON(c, &req) {
		return
	}

	car, err := h.service.SetApproval(c.Request.Context(), carID, req.Status)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, car)
}

func carIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("carID"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid car id"})
		return 0, false
	}
	return id, true
}
