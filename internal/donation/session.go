// Package donation implements the client side of the donation workflow: the
// draft form state and the confirmation state machine driving a payment
// intent from creation through processor confirmation.
package donation

import (
	"context"
	"errors"
	"sync"
	"time"

	"donate/internal/domain"
)

// SessionState is the explicit state of the confirmation controller. Using
// a single tagged state instead of boolean flags makes impossible
// combinations (processing and succeeded at once) unrepresentable.
type SessionState string

const (
	StateIdle                 SessionState = "idle"
	StateCreatingIntent       SessionState = "creating-intent"
	StateAwaitingConfirmation SessionState = "awaiting-confirmation"
	StateProcessing           SessionState = "processing"
	StateSucceeded            SessionState = "succeeded"
	StateFailed               SessionState = "failed"
)

// Processor intent statuses reported by the confirmation call.
const (
	StatusSucceeded  = "succeeded"
	StatusProcessing = "processing"
)

// DefaultAutoCloseDelay keeps the confirmation message visible before the
// form closes itself.
const DefaultAutoCloseDelay = 3 * time.Second

var (
	// ErrClosed is returned when the session has been closed.
	ErrClosed = errors.New("session closed")

	// ErrInvalidState is returned when an operation is not legal in the
	// session's current state.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrInvalidPreset is returned when a preset amount is not one of the
	// fixed choices.
	ErrInvalidPreset = errors.New("not a preset amount")

	// ErrNoAmount is returned when intent creation is attempted without a
	// selected amount.
	ErrNoAmount = errors.New("no amount selected")

	// ErrNoIdentity is returned when intent creation is attempted before
	// the donor entered any identifying field.
	ErrNoIdentity = errors.New("donor identity required")

	// ErrNameRequired is returned at confirmation when the donor name is
	// empty and the donation is not anonymous.
	ErrNameRequired = errors.New("donor name required")

	// ErrEmailInvalid is returned at confirmation when the donor email is
	// missing or malformed.
	ErrEmailInvalid = errors.New("donor email invalid")
)

// IntentCreator requests a payment intent from the donation service.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount float64, donorName, donorEmail string) (*domain.IntentHandle, error)
}

// BillingDetails are the form-collected details passed to confirmation.
type BillingDetails struct {
	Name  string
	Email string
}

// Confirmer drives the processor's client-side confirmation with a stored
// client secret, returning the resulting intent status.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret string, billing BillingDetails) (string, error)
}

// Session owns one form session's draft and intent handle and enforces the
// workflow's transitions. All methods are safe for concurrent use.
type Session struct {
	intents   IntentCreator
	confirmer Confirmer

	mu         sync.Mutex
	state      SessionState
	draft      domain.DonationDraft
	handle     *domain.IntentHandle
	lastErr    string
	closed     bool
	closeTimer *time.Timer

	autoCloseDelay time.Duration
	onAutoClose    func()
}

// Option configures a Session.
type Option func(*Session)

// WithAutoCloseDelay overrides the delay before a succeeded session closes itself.
func WithAutoCloseDelay(d time.Duration) Option {
	return func(s *Session) { s.autoCloseDelay = d }
}

// WithAutoCloseFunc sets a callback invoked when the session auto-closes.
func WithAutoCloseFunc(fn func()) Option {
	return func(s *Session) { s.onAutoClose = fn }
}

// NewSession creates an idle session with an empty draft.
func NewSession(intents IntentCreator, confirmer Confirmer, opts ...Option) *Session {
	s := &Session{
		intents:        intents,
		confirmer:      confirmer,
		state:          StateIdle,
		autoCloseDelay: DefaultAutoCloseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the most recent user-facing error message.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Handle returns the live intent handle, or nil.
func (s *Session) Handle() *domain.IntentHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() domain.DonationDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SelectPreset sets the amount to one of the fixed preset choices.
func (s *Session) SelectPreset(amount float64) error {
	for _, preset := range domain.PresetAmounts {
		if preset == amount {
			return s.setAmount(amount)
		}
	}
	return ErrInvalidPreset
}

// SetCustomAmount validates and sets a free-form amount entry.
func (s *Session) SetCustomAmount(entry string) error {
	amount, err := domain.ParseCustomAmount(entry)
	if err != nil {
		return err
	}
	return s.setAmount(amount)
}

// setAmount records the amount and discards any handle created for a
// different amount, so a stale secret is never confirmed. Re-selecting the
// same amount keeps the existing handle.
func (s *Session) setAmount(amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.state == StateProcessing || s.state == StateSucceeded {
		return ErrInvalidState
	}

	s.draft.Amount = amount
	if s.handle != nil && s.handle.Amount != amount {
		s.handle = nil
		if s.state == StateAwaitingConfirmation {
			s.state = StateIdle
		}
	}
	return nil
}

// SetDonor updates the donor identity fields.
func (s *Session) SetDonor(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.draft.DonorName = name
	s.draft.DonorEmail = email
	return nil
}

// SetAnonymous toggles the anonymous override. The entered name is kept but
// ignored at submission while the flag is set.
func (s *Session) SetAnonymous(anonymous bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.draft.IsAnonymous = anonymous
	return nil
}

// SetNewsletterOptIn toggles the newsletter opt-in.
func (s *Session) SetNewsletterOptIn(optIn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.draft.NewsletterOptIn = optIn
	return nil
}

// CreateIntent requests a payment intent once an amount and at least one
// identity field are present. Legal from idle or failed (retry); at most
// one request is in flight because creating-intent blocks re-entry.
func (s *Session) CreateIntent(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != StateIdle && s.state != StateFailed {
		s.mu.Unlock()
		return ErrInvalidState
	}
	if s.handle != nil {
		s.mu.Unlock()
		return ErrInvalidState
	}
	if !domain.ValidAmount(s.draft.Amount) {
		s.mu.Unlock()
		return ErrNoAmount
	}
	if !s.draft.HasIdentity() {
		s.mu.Unlock()
		return ErrNoIdentity
	}

	amount := s.draft.Amount
	name := s.draft.SubmitName()
	email := s.draft.DonorEmail
	s.state = StateCreatingIntent
	s.mu.Unlock()

	handle, err := s.intents.CreateIntent(ctx, amount, name, email)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The session may have closed while the request was in flight; the
	// response is simply discarded.
	if s.closed {
		return ErrClosed
	}

	if err != nil {
		s.state = StateFailed
		s.lastErr = err.Error()
		return err
	}

	// The amount may have changed mid-flight; a handle for the wrong
	// amount must not survive.
	if handle.Amount != s.draft.Amount {
		s.state = StateIdle
		return nil
	}

	s.handle = handle
	s.state = StateAwaitingConfirmation
	s.lastErr = ""
	return nil
}

// Confirm drives the processor confirmation with the stored secret. On
// success the session schedules its own close after the auto-close delay;
// on a declined payment the message is surfaced and the session returns to
// awaiting-confirmation so submission can be retried.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != StateAwaitingConfirmation || s.handle == nil {
		s.mu.Unlock()
		return ErrInvalidState
	}
	if !domain.ValidEmail(s.draft.DonorEmail) {
		s.mu.Unlock()
		return ErrEmailInvalid
	}
	if !s.draft.IsAnonymous && s.draft.SubmitName() == "" {
		s.mu.Unlock()
		return ErrNameRequired
	}

	secret := s.handle.ClientSecret
	billing := BillingDetails{
		Name:  s.draft.SubmitName(),
		Email: s.draft.DonorEmail,
	}
	s.state = StateProcessing
	s.mu.Unlock()

	status, err := s.confirmer.Confirm(ctx, secret, billing)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if err != nil {
		s.lastErr = err.Error()
		s.state = StateAwaitingConfirmation
		return err
	}

	if status != StatusSucceeded {
		s.lastErr = "payment is still " + status
		s.state = StateAwaitingConfirmation
		return nil
	}

	s.state = StateSucceeded
	s.lastErr = ""
	s.closeTimer = time.AfterFunc(s.autoCloseDelay, s.autoClose)
	return nil
}

// Close discards the draft and handle. Closing is a no-op while processing,
// to avoid abandoning a confirmation mid-flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.closed || s.state == StateProcessing {
		return
	}

	if s.closeTimer != nil {
		s.closeTimer.Stop()
		s.closeTimer = nil
	}

	s.draft = domain.DonationDraft{}
	s.handle = nil
	s.lastErr = ""
	s.closed = true
	s.state = StateIdle
}

// autoClose fires from the success timer. Close may already have run; the
// timer never acts on a disposed session.
func (s *Session) autoClose() {
	s.mu.Lock()
	if s.closed || s.state != StateSucceeded {
		s.mu.Unlock()
		return
	}
	s.closeLocked()
	fn := s.onAutoClose
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}
