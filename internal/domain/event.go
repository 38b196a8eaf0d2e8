package domain

// EventKind identifies a processor webhook event observed by this system.
type EventKind string

const (
	EventIntentCreated    EventKind = "payment_intent.created"
	EventIntentProcessing EventKind = "payment_intent.processing"
	EventIntentSucceeded  EventKind = "payment_intent.succeeded"
	EventIntentFailed     EventKind = "payment_intent.payment_failed"
	EventChargeRefunded   EventKind = "charge.refunded"
)
