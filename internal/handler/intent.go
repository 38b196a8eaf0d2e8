package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donate/internal/service"
)

// IntentHandler handles HTTP requests for payment intent creation.
type IntentHandler struct {
	intents *service.IntentService
}

// NewIntentHandler creates a new IntentHandler.
func NewIntentHandler(intents *service.IntentService) *IntentHandler {
	return &IntentHandler{intents: intents}
}

// CreateIntentRequest is the HTTP request body for intent creation. Amount
// and donorEmail are untyped so type mismatches surface as their own
// validation errors instead of a generic bind failure.
type CreateIntentRequest struct {
	Amount     any    `json:"amount"`
	DonorName  string `json:"donorName"`
	DonorEmail any    `json:"donorEmail"`
}

// CreateIntentResponse is the successful response body.
type CreateIntentResponse struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
}

// CreateIntent handles POST /api/stripe/create-payment-intent
func (h *IntentHandler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	// A malformed body leaves the fields zero-valued and fails the amount
	// check first, same as a missing amount.
	_ = c.ShouldBindJSON(&req)

	result, err := h.intents.CreateIntent(c.Request.Context(), service.CreateIntentInput{
		Amount:     req.Amount,
		DonorName:  req.DonorName,
		DonorEmail: req.DonorEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CreateIntentResponse{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.IntentID,
		Amount:          result.Amount,
	})
}
