package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	stripesdk "github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"donate/internal/domain"
	"donate/internal/repository"
)

// mockDonationRepository is a mock implementation of DonationRepository.
type mockDonationRepository struct {
	mu        sync.Mutex
	byIntent  map[string]*domain.Donation
	UpsertErr error
}

func newMockDonationRepository() *mockDonationRepository {
	return &mockDonationRepository{byIntent: make(map[string]*domain.Donation)}
}

func (m *mockDonationRepository) Upsert(_ context.Context, d *domain.Donation) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byIntent[d.IntentID]; ok {
		existing.Status = d.Status
		existing.Amount = d.Amount
		return nil
	}
	copy := *d
	m.byIntent[d.IntentID] = &copy
	return nil
}

func (m *mockDonationRepository) GetByIntentID(_ context.Context, intentID string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byIntent[intentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *d
	return &copy, nil
}

func (m *mockDonationRepository) MarkRefunded(_ context.Context, intentID string, amountRefunded float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byIntent[intentID]
	if !ok {
		return repository.ErrNotFound
	}
	d.Status = domain.DonationStatusRefunded
	d.AmountRefunded = amountRefunded
	return nil
}

func (m *mockDonationRepository) ListRecent(_ context.Context, limit int) ([]*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Donation
	for _, d := range m.byIntent {
		if d.Status == domain.DonationStatusSucceeded && d.DonorName != domain.AnonymousDonorName {
			copy := *d
			out = append(out, &copy)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockDonationRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byIntent)
}

func intentEvent(t *testing.T, kind string, pi map[string]any) stripesdk.Event {
	t.Helper()
	raw, err := json.Marshal(pi)
	if err != nil {
		t.Fatalf("marshal event payload: %v", err)
	}
	return stripesdk.Event{
		ID:   "evt_test_1",
		Type: stripesdk.EventType(kind),
		Data: &stripesdk.EventData{Raw: raw},
	}
}

func TestHandleEvent_InvalidSignature(t *testing.T) {
	t.Parallel()

	gw := &mockGateway{VerifyError: errors.New("signature mismatch")}
	repo := newMockDonationRepository()
	svc := NewWebhookService(gw, repo, zap.NewNop())

	err := svc.HandleEvent(context.Background(), []byte("{}"), "t=1,v1=bad")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	if repo.count() != 0 {
		t.Error("rejected event must never reach dispatch")
	}
}

func TestHandleEvent_Succeeded_RecordsDonation(t *testing.T) {
	t.Parallel()

	gw := &mockGateway{Event: intentEvent(t, "payment_intent.succeeded", map[string]any{
		"id":     "pi_1",
		"amount": 5000,
		"metadata": map[string]string{
			"donor_name":  "Jane Doe",
			"donor_email": "donor@example.com",
			"campaign":    "general-fund",
		},
	})}
	repo := newMockDonationRepository()
	svc := NewWebhookService(gw, repo, zap.NewNop())

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	d, err := repo.GetByIntentID(context.Background(), "pi_1")
	if err != nil {
		t.Fatalf("expected donation recorded, got: %v", err)
	}
	if d.Status != domain.DonationStatusSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", d.Status)
	}
	if d.Amount != 50 {
		t.Errorf("expected amount 50, got %v", d.Amount)
	}
	if d.DonorName != "Jane Doe" {
		t.Errorf("expected donor name from metadata, got %q", d.DonorName)
	}
}

func TestHandleEvent_DuplicateDelivery_Idempotent(t *testing.T) {
	t.Parallel()

	gw := &mockGateway{Event: intentEvent(t, "payment_intent.succeeded", map[string]any{
		"id":     "pi_1",
		"amount": 5000,
	})}
	repo := newMockDonationRepository()
	svc := NewWebhookService(gw, repo, zap.NewNop())

	for i := 0; i < 3; i++ {
		if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
			t.Fatalf("delivery %d: expected no error, got: %v", i+1, err)
		}
	}

	if repo.count() != 1 {
		t.Errorf("expected one record after redelivery, got %d", repo.count())
	}
}

func TestHandleEvent_Failed_RecordsFailure(t *testing.T) {
	t.Parallel()

	gw := &mockGateway{Event: intentEvent(t, "payment_intent.payment_failed", map[string]any{
		"id":     "pi_2",
		"amount": 2500,
		"last_payment_error": map[string]any{
			"message": "Your card was declined.",
		},
	})}
	repo := newMockDonationRepository()
	svc := NewWebhookService(gw, repo, zap.NewNop())

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	d, err := repo.GetByIntentID(context.Background(), "pi_2")
	if err != nil {
		t.Fatalf("expected donation recorded, got: %v", err)
	}
	if d.Status != domain.DonationStatusFailed {
		t.Errorf("expected FAILED, got %s", d.Status)
	}
}

func TestHandleEvent_Refund_MarksRefunded(t *testing.T) {
	t.Parallel()

	repo := newMockDonationRepository()
	succeeded := &mockGateway{Event: intentEvent(t, "payment_intent.succeeded", map[string]any{
		"id":     "pi_3",
		"amount": 10000,
	})}
	if err := NewWebhookService(succeeded, repo, zap.NewNop()).HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("seed succeeded event: %v", err)
	}

	refund := &mockGateway{Event: intentEvent(t, "charge.refunded", map[string]any{
		"id":              "ch_1",
		"amount":          10000,
		"amount_refunded": 10000,
		"payment_intent":  map[string]any{"id": "pi_3"},
	})}
	if err := NewWebhookService(refund, repo, zap.NewNop()).HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	d, err := repo.GetByIntentID(context.Background(), "pi_3")
	if err != nil {
		t.Fatalf("expected donation, got: %v", err)
	}
	if d.Status != domain.DonationStatusRefunded {
		t.Errorf("expected REFUNDED, got %s", d.Status)
	}
	if d.AmountRefunded != 100 {
		t.Errorf("expected refunded amount 100, got %v", d.AmountRefunded)
	}
}

func TestHandleEvent_RefundForUnknownIntent_Ignored(t *testing.T) {
	t.Parallel()

	gw := &mockGateway{Event: intentEvent(t, "charge.refunded", map[string]any{
		"id":              "ch_2",
		"amount":          1000,
		"amount_refunded": 1000,
		"payment_intent":  map[string]any{"id": "pi_never_seen"},
	})}
	svc := NewWebhookService(gw, newMockDonationRepository(), zap.NewNop())

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("refund for unrecorded intent should not error, got: %v", err)
	}
}

func TestHandleEvent_UnhandledKind_Acknowledged(t *testing.T) {
	t.Parallel()

	gw := &mockGateway{Event: intentEvent(t, "payment_intent.created", map[string]any{"id": "pi_4"})}
	repo := newMockDonationRepository()
	svc := NewWebhookService(gw, repo, zap.NewNop())

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if repo.count() != 0 {
		t.Error("ignored kinds must not write to the ledger")
	}
}

func TestHandleEvent_NoLedger_LogOnly(t *testing.T) {
	t.Parallel()

	gw := &mockGateway{Event: intentEvent(t, "payment_intent.succeeded", map[string]any{
		"id":     "pi_5",
		"amount": 5000,
	})}
	svc := NewWebhookService(gw, nil, zap.NewNop())

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("log-only receiver should succeed, got: %v", err)
	}
}
