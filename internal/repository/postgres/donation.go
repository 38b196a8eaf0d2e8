package postgres

import (
	"context"
	"database/sql"
	"errors"

	"donate/internal/domain"
	"donate/internal/repository"
)

// DonationRepository is a PostgreSQL implementation of repository.DonationRepository.
type DonationRepository struct {
	q Querier
}

// NewDonationRepository creates a new PostgreSQL donation repository.
func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{q: db}
}

// Upsert records a donation outcome keyed by intent ID.
func (r *DonationRepository) Upsert(ctx context.Context, donation *domain.Donation) error {
	query := `
		INSERT INTO donations (id, intent_id, amount, amount_refunded, donor_name, donor_email, campaign, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (intent_id) DO UPDATE
		SET status = EXCLUDED.status,
		    amount = EXCLUDED.amount,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.q.ExecContext(ctx, query,
		donation.ID,
		donation.IntentID,
		donation.Amount,
		donation.AmountRefunded,
		donation.DonorName,
		donation.DonorEmail,
		donation.Campaign,
		donation.Status,
		donation.CreatedAt,
		donation.UpdatedAt,
	)

	return err
}

// GetByIntentID retrieves a donation by its payment intent ID.
func (r *DonationRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Donation, error) {
	query := `
		SELECT id, intent_id, amount, amount_refunded, donor_name, donor_email, campaign, status, created_at, updated_at
		FROM donations WHERE intent_id = $1
	`

	var donation domain.Donation
	err := r.q.QueryRowContext(ctx, query, intentID).Scan(
		&donation.ID,
		&donation.IntentID,
		&donation.Amount,
		&donation.AmountRefunded,
		&donation.DonorName,
		&donation.DonorEmail,
		&donation.Campaign,
		&donation.Status,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &donation, nil
}

// MarkRefunded marks a recorded donation as refunded.
func (r *DonationRepository) MarkRefunded(ctx context.Context, intentID string, amountRefunded float64) error {
	query := `
		UPDATE donations
		SET status = $1, amount_refunded = $2, updated_at = NOW()
		WHERE intent_id = $3
	`

	result, err := r.q.ExecContext(ctx, query, domain.DonationStatusRefunded, amountRefunded, intentID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListRecent returns the most recent succeeded, non-anonymous donations.
func (r *DonationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Donation, error) {
	query := `
		SELECT id, intent_id, amount, amount_refunded, donor_name, donor_email, campaign, status, created_at, updated_at
		FROM donations
		WHERE status = $1 AND donor_name <> $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.q.QueryContext(ctx, query, domain.DonationStatusSucceeded, domain.AnonymousDonorName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		var donation domain.Donation
		if err := rows.Scan(
			&donation.ID,
			&donation.IntentID,
			&donation.Amount,
			&donation.AmountRefunded,
			&donation.DonorName,
			&donation.DonorEmail,
			&donation.Campaign,
			&donation.Status,
			&donation.CreatedAt,
			&donation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		donations = append(donations, &donation)
	}

	return donations, rows.Err()
}

var _ repository.DonationRepository = (*DonationRepository)(nil)
