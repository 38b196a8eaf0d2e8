package domain

import "testing"

func TestParseCustomAmount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		entry   string
		want    float64
		wantErr error
	}{
		{name: "whole number", entry: "50", want: 50},
		{name: "two decimal places", entry: "12.34", want: 12.34},
		{name: "leading whitespace", entry: " 25 ", want: 25},
		{name: "maximum", entry: "999999", want: 999999},
		{name: "minimum", entry: "1", want: 1},
		{name: "not a number", entry: "fifty", wantErr: ErrAmountNotNumber},
		{name: "empty", entry: "", wantErr: ErrAmountNotNumber},
		{name: "nan", entry: "NaN", wantErr: ErrAmountNotNumber},
		{name: "infinity", entry: "Inf", wantErr: ErrAmountNotNumber},
		{name: "three decimal places", entry: "10.005", wantErr: ErrAmountPrecision},
		{name: "below minimum", entry: "0.50", wantErr: ErrAmountTooLow},
		{name: "zero", entry: "0", wantErr: ErrAmountTooLow},
		{name: "negative", entry: "-5", wantErr: ErrAmountTooLow},
		{name: "above maximum", entry: "1000000", wantErr: ErrAmountTooHigh},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCustomAmount(tc.entry)
			if err != tc.wantErr {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"donor@example.com", "a.b+c@mail.example.org"}
	for _, email := range valid {
		if !ValidEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{"", "donor", "donor@example", "@example.com", "donor example@example.com"}
	for _, email := range invalid {
		if ValidEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestSubmitName_AnonymousOverride(t *testing.T) {
	t.Parallel()

	draft := DonationDraft{DonorName: "Jane Doe", IsAnonymous: true}
	if got := draft.SubmitName(); got != AnonymousDonorName {
		t.Errorf("expected %q, got %q", AnonymousDonorName, got)
	}

	draft.IsAnonymous = false
	if got := draft.SubmitName(); got != "Jane Doe" {
		t.Errorf("expected entered name, got %q", got)
	}
}

func TestHasIdentity(t *testing.T) {
	t.Parallel()

	if (&DonationDraft{}).HasIdentity() {
		t.Error("empty draft should have no identity")
	}
	if !(&DonationDraft{DonorName: "Jane"}).HasIdentity() {
		t.Error("name alone should count as identity")
	}
	if !(&DonationDraft{DonorEmail: "donor@example.com"}).HasIdentity() {
		t.Error("email alone should count as identity")
	}
	if (&DonationDraft{DonorName: "   "}).HasIdentity() {
		t.Error("whitespace name should not count as identity")
	}
}
