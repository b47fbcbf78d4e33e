package usecase

import (
	"context"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// UserRepository defines data access for the account directory.
type UserRepository interface {
	// Create inserts a new user and fills in the assigned id. Unique
	// violations on username or email map to domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// LockByIDs acquires exclusive row locks on the given users inside tx,
	// always in ascending id order so concurrent transfers over the same
	// pair cannot deadlock. Missing ids shrink the result.
	LockByIDs(ctx context.Context, tx Transaction, ids []int64) ([]*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// EntryRepository defines data access for ledger entries. Entries are
// append-only: Create inserts a pending row, SetStatus performs the single
// pending -> terminal transition, nothing else ever mutates a row.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	SetStatus(ctx context.Context, tx Transaction, id int64, status domain.EntryStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Entry, error)
	// ListByUser returns entries ordered by (created_at, entry_id)
	// descending, a stable total order even for same-instant entries.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Entry, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	// SumCompletedByUser computes the signed sum of the user's completed
	// entries in a single aggregate query.
	SumCompletedByUser(ctx context.Context, userID int64) (int64, error)
	// SumCompletedByUserTx is the same aggregate evaluated inside tx, so a
	// balance check observes the row locks taken by the surrounding
	// operation.
	SumCompletedByUserTx(ctx context.Context, tx Transaction, userID int64) (int64, error)
	// SumCompletedAtEntry computes the balance up to and including the
	// target entry, ordered by (created_at, entry_id) with the entry id as
	// tie-break. One consistent query, never a read-then-filter.
	SumCompletedAtEntry(ctx context.Context, userID, entryID int64) (int64, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, userID int64, limit, offset int) ([]*domain.AuditLog, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs for audit logs and outbox events.
// Ledger entry and user ids are assigned by the store.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
