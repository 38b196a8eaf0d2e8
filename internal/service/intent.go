package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"donate/internal/domain"
	"donate/internal/stripe"
)

const maxDonorNameLength = 100

// IntentService validates donation requests and creates payment intents
// with the external processor.
type IntentService struct {
	gateway      stripe.Gateway
	log          *zap.Logger
	campaign     string
	organization string
}

// NewIntentService creates a new IntentService.
func NewIntentService(gateway stripe.Gateway, log *zap.Logger, campaign, organization string) *IntentService {
	return &IntentService{
		gateway:      gateway,
		log:          log,
		campaign:     campaign,
		organization: organization,
	}
}

// CreateIntentInput carries the raw request fields. Amount and DonorEmail
// are untyped because the wire contract distinguishes "not a number" and
// "not a string" from the other validation failures.
type CreateIntentInput struct {
	Amount     any
	DonorName  string
	DonorEmail any
}

// IntentResult is the successful outcome of intent creation.
type IntentResult struct {
	ClientSecret string
	IntentID     string
	Amount       float64
}

// CreateIntent validates the input fail-fast (each failure has a distinct
// error), sanitizes the donor name, and requests an intent from the
// processor. No intent is created for invalid input.
func (s *IntentService) CreateIntent(ctx context.Context, in CreateIntentInput) (*IntentResult, error) {
	amount, ok := in.Amount.(float64)
	if !ok {
		return nil, ErrAmountNotNumber
	}
	if amount < domain.MinDonationAmount {
		return nil, ErrAmountTooLow
	}
	if amount > domain.MaxDonationAmount {
		return nil, ErrAmountTooHigh
	}

	email, ok := in.DonorEmail.(string)
	if !ok || email == "" {
		return nil, ErrEmailRequired
	}
	if !domain.ValidEmail(email) {
		return nil, ErrEmailFormat
	}

	name := sanitizeDonorName(in.DonorName)

	intent, err := s.gateway.CreateIntent(ctx, stripe.IntentRequest{
		Amount:       amount,
		Currency:     "usd",
		Description:  "Donation to " + s.organization,
		ReceiptEmail: email,
		Metadata: map[string]string{
			"campaign":     s.campaign,
			"organization": s.organization,
			"donor_name":   name,
			"donor_email":  email,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		s.log.Error("payment intent creation failed",
			zap.Float64("amount", amount),
			zap.String("campaign", s.campaign),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Float64("amount", amount),
		zap.String("campaign", s.campaign),
	)

	return &IntentResult{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
		Amount:       amount,
	}, nil
}

// sanitizeDonorName trims and truncates the donor name, defaulting to the
// anonymous placeholder when absent. Truncation counts runes so a multi-byte
// name is never cut mid-character.
func sanitizeDonorName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.AnonymousDonorName
	}
	if utf8.RuneCountInString(name) > maxDonorNameLength {
		name = string([]rune(name)[:maxDonorNameLength])
	}
	return name
}
