package repository

import (
	"context"

	"donate/internal/domain"
)

// DonationRepository defines the persistence operations for the donation
// ledger fed by verified webhook events.
type DonationRepository interface {
	// Upsert records a donation outcome keyed by intent ID. Webhook
	// redelivery makes duplicates routine, so this must be idempotent.
	Upsert(ctx context.Context, donation *domain.Donation) error

	// GetByIntentID retrieves a donation by its payment intent ID.
	GetByIntentID(ctx context.Context, intentID string) (*domain.Donation, error)

	// MarkRefunded marks a recorded donation as refunded.
	MarkRefunded(ctx context.Context, intentID string, amountRefunded float64) error

	// ListRecent returns the most recent succeeded, non-anonymous donations.
	ListRecent(ctx context.Context, limit int) ([]*domain.Donation, error)
}
