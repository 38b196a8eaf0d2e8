package donation

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"donate/internal/domain"
)

// APIError is a structured error returned by the donation service. Message
// is user-safe and surfaced verbatim in the form.
type APIError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Client calls the donation service's intent endpoint.
type Client struct {
	http *resty.Client
}

// NewClient creates a Client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
	}
}

type createIntentRequest struct {
	Amount     float64 `json:"amount"`
	DonorName  string  `json:"donorName,omitempty"`
	DonorEmail string  `json:"donorEmail"`
}

type createIntentResponse struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
}

// CreateIntent implements IntentCreator over HTTP.
func (c *Client) CreateIntent(ctx context.Context, amount float64, donorName, donorEmail string) (*domain.IntentHandle, error) {
	var (
		result createIntentResponse
		apiErr APIError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createIntentRequest{
			Amount:     amount,
			DonorName:  donorName,
			DonorEmail: donorEmail,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/stripe/create-payment-intent")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, &apiErr
	}

	return &domain.IntentHandle{
		ClientSecret: result.ClientSecret,
		IntentID:     result.PaymentIntentID,
		Amount:       result.Amount,
	}, nil
}

var _ IntentCreator = (*Client)(nil)
