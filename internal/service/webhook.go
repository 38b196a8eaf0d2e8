package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	stripesdk "github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"donate/internal/domain"
	"donate/internal/repository"
	"donate/internal/stripe"
)

// WebhookService verifies processor-signed events and dispatches them by
// kind. Donations is optional: when nil the receiver is log-only, otherwise
// verified outcomes are recorded in the ledger.
type WebhookService struct {
	gateway   stripe.Gateway
	donations repository.DonationRepository
	log       *zap.Logger
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(gateway stripe.Gateway, donations repository.DonationRepository, log *zap.Logger) *WebhookService {
	return &WebhookService{
		gateway:   gateway,
		donations: donations,
		log:       log,
	}
}

// HandleEvent verifies the payload signature and dispatches the event.
// A verification failure returns ErrInvalidSignature and the event is
// discarded. Handler errors propagate so the HTTP layer answers non-2xx
// and the processor redelivers.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.gateway.VerifyEvent(payload, sigHeader)
	if err != nil {
		s.log.Warn("webhook signature verification failed", zap.Error(err))
		return ErrInvalidSignature
	}

	switch domain.EventKind(event.Type) {
	case domain.EventIntentSucceeded:
		return s.handleIntentOutcome(ctx, event, domain.DonationStatusSucceeded)

	case domain.EventIntentFailed:
		return s.handleIntentOutcome(ctx, event, domain.DonationStatusFailed)

	case domain.EventChargeRefunded:
		return s.handleRefund(ctx, event)

	default:
		s.log.Info("ignoring webhook event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
		)
		return nil
	}
}

func (s *WebhookService) handleIntentOutcome(ctx context.Context, event stripesdk.Event, status domain.DonationStatus) error {
	var pi stripesdk.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("unmarshal payment intent: %w", err)
	}

	amount := float64(pi.Amount) / 100

	if status == domain.DonationStatusSucceeded {
		s.log.Info("donation succeeded",
			zap.String("intent_id", pi.ID),
			zap.Float64("amount", amount),
			zap.String("donor", pi.Metadata["donor_name"]),
			zap.String("campaign", pi.Metadata["campaign"]),
		)
	} else {
		reason := "unknown"
		if pi.LastPaymentError != nil {
			reason = pi.LastPaymentError.Msg
		}
		s.log.Warn("donation payment failed",
			zap.String("intent_id", pi.ID),
			zap.Float64("amount", amount),
			zap.String("reason", reason),
		)
	}

	if s.donations == nil {
		return nil
	}

	now := time.Now().UTC()
	return s.donations.Upsert(ctx, &domain.Donation{
		ID:         uuid.New().String(),
		IntentID:   pi.ID,
		Amount:     amount,
		DonorName:  pi.Metadata["donor_name"],
		DonorEmail: pi.Metadata["donor_email"],
		Campaign:   pi.Metadata["campaign"],
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *WebhookService) handleRefund(ctx context.Context, event stripesdk.Event) error {
	var charge stripesdk.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return fmt.Errorf("unmarshal charge: %w", err)
	}

	refunded := float64(charge.AmountRefunded) / 100
	s.log.Info("donation refunded",
		zap.String("charge_id", charge.ID),
		zap.Float64("amount", float64(charge.Amount)/100),
		zap.Float64("amount_refunded", refunded),
	)

	if s.donations == nil || charge.PaymentIntent == nil {
		return nil
	}

	err := s.donations.MarkRefunded(ctx, charge.PaymentIntent.ID, refunded)
	if errors.Is(err, repository.ErrNotFound) {
		// Refund for an intent we never recorded; nothing to update.
		s.log.Warn("refund for unrecorded donation", zap.String("intent_id", charge.PaymentIntent.ID))
		return nil
	}
	return err
}
