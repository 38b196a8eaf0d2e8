package domain

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// PresetAmounts are the fixed donation choices shown in the form.
var PresetAmounts = []float64{25, 50, 100, 250}

// emailPattern checks basic email shape: something@domain.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	// ErrAmountNotNumber is returned when a custom amount does not parse.
	ErrAmountNotNumber = errors.New("amount is not a number")

	// ErrAmountPrecision is returned when an amount has more than two decimal places.
	ErrAmountPrecision = errors.New("amount has more than two decimal places")

	// ErrAmountTooLow is returned when an amount is below the minimum.
	ErrAmountTooLow = errors.New("amount below minimum")

	// ErrAmountTooHigh is returned when an amount is above the maximum.
	ErrAmountTooHigh = errors.New("amount above maximum")
)

// DonationDraft is the in-progress, unsubmitted state of a donation form.
// It lives for one form session and is discarded on close or submission.
type DonationDraft struct {
	Amount          float64
	DonorName       string
	DonorEmail      string
	IsAnonymous     bool
	NewsletterOptIn bool
}

// IntentHandle holds a created payment intent's secret for one form session.
// At most one live handle exists per session; changing the amount discards it.
type IntentHandle struct {
	ClientSecret string
	IntentID     string
	Amount       float64
}

// ParseCustomAmount validates a free-form amount entry: a positive number
// with at most two decimal places, within the donation bounds.
func ParseCustomAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrAmountNotNumber
	}
	// ParseFloat accepts "NaN" and "Inf", which would slip past the range
	// checks below.
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrAmountNotNumber
	}

	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return 0, ErrAmountPrecision
	}

	if amount < MinDonationAmount {
		return 0, ErrAmountTooLow
	}
	if amount > MaxDonationAmount {
		return 0, ErrAmountTooHigh
	}

	return amount, nil
}

// ValidAmount reports whether an already-numeric amount is within bounds.
func ValidAmount(amount float64) bool {
	return amount >= MinDonationAmount && amount <= MaxDonationAmount
}

// ValidEmail reports whether s matches a basic email shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// HasIdentity reports whether the donor entered at least one identifying field.
func (d *DonationDraft) HasIdentity() bool {
	return strings.TrimSpace(d.DonorName) != "" || strings.TrimSpace(d.DonorEmail) != ""
}

// SubmitName is the donor name actually submitted: the anonymous placeholder
// overrides whatever was typed when IsAnonymous is set.
func (d *DonationDraft) SubmitName() string {
	if d.IsAnonymous {
		return AnonymousDonorName
	}
	return strings.TrimSpace(d.DonorName)
}
