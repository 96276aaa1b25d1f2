package http

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/grocerylens/backend/internal/domain"
)

var validate = validator.New()

func init() {
	// Report json field names ("maxStores") instead of Go ones
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ErrorResponse is the JSON envelope of every error answer
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// bindAndValidate binds the JSON body and runs the validator tags.
// It writes the error response itself; callers return when it reports false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			respondError(c, http.StatusBadRequest, err.Error())
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Fields: fields,
		})
		return false
	}
	return true
}

// handleServiceError maps domain errors to HTTP statuses
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoPriceTable):
		respondError(c, http.StatusBadRequest, "no price table available - send prices with the request")
	case errors.Is(err, domain.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, "rate limit exceeded")
	case errors.Is(err, domain.ErrPriceFeedUnavailable):
		respondError(c, http.StatusServiceUnavailable, "price feed temporarily unavailable")
	case errors.Is(err, domain.ErrCatalogUnavailable):
		respondError(c, http.StatusServiceUnavailable, "store catalog temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(c, http.StatusServiceUnavailable, "request cancelled")
	default:
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled service error")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
