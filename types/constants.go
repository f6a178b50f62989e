package types

import "time"

const (
	// DefaultBatchCapacity is the capacity of the batch opened at service
	// initialization, before the owner opens any batch explicitly.
	DefaultBatchCapacity = 32
	// DefaultCooldown is the initial per-provider cooldown between accepted
	// state-changing calls.
	DefaultCooldown = 10 * time.Second
	// FirstGeneration is the model-version generation the registry starts at.
	FirstGeneration = 1
	// MaxCleartext is the upper bound for the discrete-log search when
	// decrypting an aggregate.
	MaxCleartext = 1 << 24
	// ServiceIDSize is the size in bytes of the service identity bound into
	// integrity hashes.
	ServiceIDSize = 32
)
