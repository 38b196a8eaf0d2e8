package stripe

import (
	"context"
	"math"

	stripesdk "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

// IntentRequest contains the parameters for creating a payment intent.
// Amount is in currency units; conversion to the processor's minor units
// happens at this boundary.
type IntentRequest struct {
	Amount       float64
	Currency     string
	Description  string
	ReceiptEmail string
	Metadata     map[string]string
}

// Intent is the result of creating a payment intent. The client secret is
// opaque and usable only by the browser session that requested it.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       float64
	Status       string
}

// Gateway is the interface to the external payment processor.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)

	// VerifyEvent checks a webhook payload's signature against the shared
	// webhook secret and returns the parsed event.
	VerifyEvent(payload []byte, sigHeader string) (stripesdk.Event, error)
}

// Client is the live Stripe implementation of Gateway.
type Client struct {
	webhookSecret string
}

// NewClient configures the Stripe SDK and returns a live gateway.
func NewClient(secretKey, webhookSecret string) *Client {
	stripesdk.Key = secretKey
	return &Client{webhookSecret: webhookSecret}
}

// CreateIntent creates a payment intent with automatic payment methods, so
// the processor's payment element can render whatever methods apply.
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripesdk.PaymentIntentParams{
		Amount:   stripesdk.Int64(toMinorUnits(req.Amount)),
		Currency: stripesdk.String(req.Currency),
		AutomaticPaymentMethods: &stripesdk.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripesdk.Bool(true),
		},
	}
	params.Context = ctx

	if req.Description != "" {
		params.Description = stripesdk.String(req.Description)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripesdk.String(req.ReceiptEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       fromMinorUnits(pi.Amount),
		Status:       string(pi.Status),
	}, nil
}

// VerifyEvent implements Gateway.
func (c *Client) VerifyEvent(payload []byte, sigHeader string) (stripesdk.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

var _ Gateway = (*Client)(nil)
