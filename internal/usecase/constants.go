package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPendingMarker is the stored value of a key whose first request is in flight.
	IdempotencyPendingMarker = "processing"

	// ClosedSessionCacheTTL is how long a closed session snapshot stays cached.
	ClosedSessionCacheTTL = 1 * time.Hour

	closedSessionCachePrefix = "session:closed:"
)
