package review

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
// @Summary      Review a booking
// @Description  The booking's customer rates a completed trip once. Comment and photos are optional.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body review.CreateReviewRequest true "Review payload"
// @Success      201 {object} review.Review
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /reviews [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreateReviewRequest
	if !api.BindJSON(c, &req) {
		return
	}

	rv, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rv)
}

// ListForCar godoc
// @Summary      Car reviews
// @Description  Newest first, with the average rating and review count.
// @Tags         reviews
// @Produce      json
// @Param        carID   path   int  true   "Car ID"
// @Param        limit   query  int  false  "Page size (max 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200 {object} review.CarReviews
// @Failure      404 {object} api.ErrorResponse
// @Router       /cars/{carID}/reviews [get]
func (h *Handler) ListForCar(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("carID"))
	if err != nil || carID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid car id"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	out, err := h.service.ListForCar(c.Request.Context(), carID, limit, offset)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
