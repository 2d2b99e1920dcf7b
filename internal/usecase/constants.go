package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// during administrative rewrites.
	DefaultTransactionTimeout = 10 * time.Second

	// SummaryCacheTTL is how long cached tender summaries live. Dashboards
	// reading the cache are eventually consistent with in-flight
	// certifications.
	SummaryCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
