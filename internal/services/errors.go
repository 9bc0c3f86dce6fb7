// internal/services/errors.go
package services

import "errors"

// Ledger error taxonomy. Every mutating operation either fully succeeds or
// fails with exactly one of these; a failed operation commits nothing.
var (
	// ErrValidation marks malformed input, surfaced to the caller for
	// correction.
	ErrValidation = errors.New("validation failed")

	ErrAssetNotFound        = errors.New("asset not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrSplitNotFound        = errors.New("royalty split not found")

	// ErrUnauthorized means the caller is not the asset's creator. Never
	// retried automatically.
	ErrUnauthorized = errors.New("caller is not the asset creator")

	// ErrInvalidState marks an attempted transition out of a terminal
	// contribution state, or voting on a decided contribution.
	ErrInvalidState = errors.New("contribution already decided")

	// ErrInvariantViolation means the operation would break the royalty
	// partition: creator + contributors must always sum to 100.
	ErrInvariantViolation = errors.New("royalty percentage would exceed 100%")

	// ErrAlreadyVoted marks a duplicate vote from the same address. A no-op
	// failure, not a crash.
	ErrAlreadyVoted = errors.New("address has already voted on this contribution")
)
