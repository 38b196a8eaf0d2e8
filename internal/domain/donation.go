package domain

import "time"

// Donation amount bounds in currency units (not cents).
const (
	MinDonationAmount = 1
	MaxDonationAmount = 999999
)

// AnonymousDonorName replaces the entered name when a donor asks to stay anonymous.
const AnonymousDonorName = "Anonymous"

// DonationStatus represents the current status of a donation.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "PENDING"
	DonationStatusSucceeded DonationStatus = "SUCCEEDED"
	DonationStatusFailed    DonationStatus = "FAILED"
	DonationStatusRefunded  DonationStatus = "REFUNDED"
)

// Donation is a ledger record of a donation outcome observed via webhook.
type Donation struct {
	ID             string
	IntentID       string
	Amount         float64
	AmountRefunded float64
	DonorName      string
	DonorEmail     string
	Campaign       string
	Status         DonationStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
