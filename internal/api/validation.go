package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field" example:"end"`
	Tag     string `json:"tag" example:"required"`
	Message string `json:"message" example:"end is required"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Details []ValidationError `json:"details"`
}

// BindJSON binds the request body into obj. On failure it writes a 400 and
// returns false; binding-tag violations are reported per field.
func BindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Details: describe(verrs)})
		return false
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	return false
}

// ValidateStruct runs binding-independent validation and returns the
// violations, or nil.
func ValidateStruct(s interface{}) []ValidationError {
	err := validator.New().Struct(s)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return describe(verrs)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return err.Field() + " must be a valid email address"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "gt":
		return err.Field() + " must be greater than " + err.Param()
	case "gte":
		return err.Field() + " must be greater than or equal to " + err.Param()
	case "lte":
		return err.Field() + " must be less than or equal to " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	default:
		return err.Field() + " is invalid"
	}
}
