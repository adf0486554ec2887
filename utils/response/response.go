package response

import (
	"errors"
	"net/http"

	"seenaf/services"

	"github.com/gin-gonic/gin"
)

// Error sends a standardized error response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// Success sends a standardized success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// ValidationError sends a response for validation errors
func ValidationError(c *gin.Context, errors map[string]string) {
	c.JSON(400, gin.H{"errors": errors})
}

// FromError maps a service-layer error to its HTTP status. Unrecognized
// errors are store failures and must not be swallowed into a default state.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrEmptySubmission):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, err.Error())
	default:
		Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
