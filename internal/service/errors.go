package service

import "errors"

var (
	// ErrAmountNotNumber is returned when the submitted amount is not numeric.
	ErrAmountNotNumber = errors.New("amount must be a number")

	// ErrAmountTooLow is returned when the amount is below the donation minimum.
	ErrAmountTooLow = errors.New("amount below minimum")

	// ErrAmountTooHigh is returned when the amount is above the donation maximum.
	ErrAmountTooHigh = errors.New("amount above maximum")

	// ErrEmailRequired is returned when the donor email is missing or not a string.
	ErrEmailRequired = errors.New("email is required")

	// ErrEmailFormat is returned when the donor email does not look like an email.
	ErrEmailFormat = errors.New("email format is invalid")

	// ErrInvalidSignature is returned when a webhook payload fails signature
	// verification. The event is discarded, never dispatched.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
