package domain

import "time"

// EntryKind identifies the kind of monetary movement a ledger entry records.
type EntryKind string

const (
	KindDeposit     EntryKind = "deposit"
	KindWithdrawal  EntryKind = "withdrawal"
	KindTransferIn  EntryKind = "transfer_in"
	KindTransferOut EntryKind = "transfer_out"
)

// entrySigns is the closed sign table for balance reconstruction. Any new
// kind must be added here in lockstep, otherwise Sign returns 0 and the
// entry never contributes to a balance.
var entrySigns = map[EntryKind]int64{
	KindDeposit:     +1,
	KindTransferIn:  +1,
	KindWithdrawal:  -1,
	KindTransferOut: -1,
}

// Sign returns +1 for credits, -1 for debits, 0 for unknown kinds.
func (k EntryKind) Sign() int64 {
	return entrySigns[k]
}

// IsValid checks if the kind is one of the four known kinds.
func (k EntryKind) IsValid() bool {
	_, ok := entrySigns[k]
	return ok
}

// EntryStatus is the lifecycle status of a ledger entry.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
	StatusFailed    EntryStatus = "failed"
)

// IsTerminal reports whether the status permits no further transition.
func (s EntryStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Entry is one immutable record of a monetary movement affecting exactly one
// user. AmountCents is an unsigned magnitude; the sign is implied by Kind.
// The only permitted mutation is the single pending -> terminal status
// transition.
type Entry struct {
	ID          int64
	UserID      int64
	AmountCents int64
	Kind        EntryKind
	Status      EntryStatus
	CreatedAt   time.Time
}

// SignedAmount returns the entry's contribution to a derived balance.
func (e *Entry) SignedAmount() int64 {
	return e.Kind.Sign() * e.AmountCents
}

// Validate checks entry invariants before persistence.
func (e *Entry) Validate() error {
	if e.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if !e.Kind.IsValid() {
		return ErrUnknownEntryKind
	}
	return nil
}
