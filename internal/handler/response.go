package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/roeeblo/smart-job-tracker/internal/constants"
	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/middleware"
)

// respondError maps a service error to its HTTP status. Only domain
// error messages reach the client; anything unexpected is masked.
func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)

	message := "internal server error"
	if domainErr := apperrors.GetDomainError(err); domainErr != nil && status < http.StatusInternalServerError {
		message = domainErr.Message
	}

	c.JSON(status, constants.BuildErrorResponse(message))
}

// respondBindError turns a binding failure into the uniform error body,
// naming the first offending field when the validator reported one.
func respondBindError(c *gin.Context, err error) {
	message := "invalid input"

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			message = fmt.Sprintf("%s is too short", field)
		case "max":
			message = fmt.Sprintf("%s is too long", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
	}

	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(message))
}

// currentUserID reads the id placed by the auth middleware. A missing
// id means the route was wired without JWTAuth, treated as a plain 401.
func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("unauthorized"))
	}
	return id, ok
}
