package domain

import "time"

// Event types
const (
	EventTypeUserRegistered   = "user.registered"
	EventTypeEntryCompleted   = "entry.completed"
	EventTypeTransferComplete = "transfer.completed"
	EventTypeTransferFailed   = "transfer.failed"
)

// Aggregate types
const (
	AggregateTypeUser  = "user"
	AggregateTypeEntry = "entry"
)

// OutboxEvent represents an event to be published. Events are written in the
// same database transaction as the state change they describe and published
// by a background worker.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryCompletedEvent payload
type EntryCompletedEvent struct {
	EntryID     int64  `json:"entry_id"`
	UserID      int64  `json:"user_id"`
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
}

// TransferCompletedEvent payload
type TransferCompletedEvent struct {
	OutgoingEntryID int64 `json:"outgoing_entry_id"`
	IncomingEntryID int64 `json:"incoming_entry_id"`
	SenderID        int64 `json:"sender_id"`
	RecipientID     int64 `json:"recipient_id"`
	AmountCents     int64 `json:"amount_cents"`
}

// TransferFailedEvent payload
type TransferFailedEvent struct {
	OutgoingEntryID int64  `json:"outgoing_entry_id"`
	IncomingEntryID int64  `json:"incoming_entry_id"`
	SenderID        int64  `json:"sender_id"`
	RecipientID     int64  `json:"recipient_id"`
	AmountCents     int64  `json:"amount_cents"`
	Reason          string `json:"reason"`
}

// UserRegisteredEvent payload
type UserRegisteredEvent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
