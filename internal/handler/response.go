package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	stripesdk "github.com/stripe/stripe-go/v80"

	"donate/internal/repository"
	"donate/internal/service"
)

// ErrorResponse is the wire shape for all error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code, body := mapError(err)
	c.JSON(code, body)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps service and processor errors to the wire contract. Each
// validation failure carries a distinct machine-readable error code;
// processor categories get distinct statuses with user-safe messages.
func mapError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, service.ErrAmountNotNumber):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid amount", Message: "Donation amount must be a number."}
	case errors.Is(err, service.ErrAmountTooLow):
		return http.StatusBadRequest, ErrorResponse{Error: "Amount too low", Message: "The minimum donation is $1."}
	case errors.Is(err, service.ErrAmountTooHigh):
		return http.StatusBadRequest, ErrorResponse{Error: "Amount too high", Message: "The maximum donation is $999,999."}
	case errors.Is(err, service.ErrEmailRequired):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid email", Message: "An email address is required."}
	case errors.Is(err, service.ErrEmailFormat):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid email format", Message: "Please enter a valid email address."}
	case errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid signature"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Not found"}
	}

	var stripeErr *stripesdk.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripesdk.ErrorTypeCard:
			// Card errors carry a message Stripe deems safe to show donors.
			return http.StatusPaymentRequired, ErrorResponse{Error: "Payment processing failed", Message: stripeErr.Msg}
		case stripesdk.ErrorTypeInvalidRequest:
			return http.StatusBadRequest, ErrorResponse{Error: "Payment processing failed", Message: "The payment request was rejected."}
		case stripesdk.ErrorTypeAPI:
			return http.StatusBadGateway, ErrorResponse{Error: "Payment service error", Message: "The payment service is temporarily unavailable."}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: "Payment service error", Message: "An unexpected error occurred."}
}
