package tally

import (
	"errors"
	"fmt"
)

// Error categories. Every operation failure wraps exactly one of these, so
// callers can match either the category or the concrete error with
// errors.Is. Failures abort the whole operation with no partial effect.
var (
	ErrAuthorization     = errors.New("authorization error")
	ErrLifecycle         = errors.New("lifecycle error")
	ErrRateLimit         = errors.New("rate limit error")
	ErrConsistency       = errors.New("consistency error")
	ErrProof             = errors.New("proof error")
	ErrDuplicateDelivery = errors.New("duplicate delivery error")
)

var (
	// ErrNotOwner is returned when an owner-only operation is called by
	// another identity.
	ErrNotOwner = fmt.Errorf("%w: caller is not the owner", ErrAuthorization)
	// ErrNotProvider is returned when a provider-only operation is called
	// by an identity outside the provider set.
	ErrNotProvider = fmt.Errorf("%w: caller is not a provider", ErrAuthorization)

	// ErrAlreadyInitialized is returned when Initialize runs on an already
	// initialized state.
	ErrAlreadyInitialized = fmt.Errorf("%w: already initialized", ErrLifecycle)
	// ErrNotInitialized is returned when any operation runs before
	// Initialize.
	ErrNotInitialized = fmt.Errorf("%w: not initialized", ErrLifecycle)
	// ErrPaused is returned for provider operations while the service is
	// paused.
	ErrPaused = fmt.Errorf("%w: service is paused", ErrLifecycle)
	// ErrAlreadyPaused is returned when pausing an already paused service.
	ErrAlreadyPaused = fmt.Errorf("%w: already paused", ErrLifecycle)
	// ErrNotPaused is returned when unpausing a service that is not paused.
	ErrNotPaused = fmt.Errorf("%w: not paused", ErrLifecycle)
	// ErrBatchUnknown is returned when the target batch does not exist.
	ErrBatchUnknown = fmt.Errorf("%w: unknown batch", ErrLifecycle)
	// ErrBatchClosed is returned when committing to or closing a closed
	// batch.
	ErrBatchClosed = fmt.Errorf("%w: batch is closed", ErrLifecycle)
	// ErrBatchFull is returned when committing to a batch at capacity.
	ErrBatchFull = fmt.Errorf("%w: batch is full", ErrLifecycle)
	// ErrEmptyBatch is returned when requesting decryption of a batch with
	// no entries.
	ErrEmptyBatch = fmt.Errorf("%w: batch is empty", ErrLifecycle)
	// ErrInvalidCapacity is returned when opening a batch with zero
	// capacity.
	ErrInvalidCapacity = fmt.Errorf("%w: batch capacity must be positive", ErrLifecycle)
	// ErrUninitializedCiphertext is returned when a ciphertext handle does
	// not hold a usable encrypted value.
	ErrUninitializedCiphertext = fmt.Errorf("%w: uninitialized ciphertext", ErrLifecycle)

	// ErrRateLimited is returned when a provider acts again before its
	// cooldown has elapsed.
	ErrRateLimited = fmt.Errorf("%w: cooldown has not elapsed", ErrRateLimit)

	// ErrStaleGeneration is returned when an entry's generation tag
	// diverges from the aggregation target generation.
	ErrStaleGeneration = fmt.Errorf("%w: stale generation tag", ErrConsistency)
	// ErrHashMismatch is returned when the integrity hash recomputed at
	// callback time differs from the hash captured at request time.
	ErrHashMismatch = fmt.Errorf("%w: integrity hash mismatch", ErrConsistency)

	// ErrInvalidProof is returned when the oracle proof fails verification.
	ErrInvalidProof = fmt.Errorf("%w: proof verification failed", ErrProof)

	// ErrUnknownRequest is returned for callbacks referencing an unknown or
	// already processed decryption context.
	ErrUnknownRequest = fmt.Errorf("%w: unknown or processed request", ErrDuplicateDelivery)
)
