package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// resolveCacheTTL bounds staleness of cached directory lookups.
	// Identity records are immutable after registration, so a short TTL is
	// purely about memory pressure.
	resolveCacheTTL = 5 * time.Minute
)
