package storage

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// Config is the process-wide tally configuration. Exactly one instance
// exists, created once at initialization.
type Config struct {
	Owner        common.Address `json:"owner"`
	Paused       bool           `json:"paused"`
	Cooldown     time.Duration  `json:"cooldown"`
	CurrentBatch uint64         `json:"currentBatch"`
	Generation   uint32         `json:"generation"`
	ServiceID    types.HexBytes `json:"serviceId"`
}

// Batch is a capacity-bounded, append-only collection of encrypted entries.
// Capacity is immutable after creation; a closed batch is never reopened.
type Batch struct {
	ID       uint64 `json:"id"`
	Open     bool   `json:"open"`
	Capacity uint32 `json:"capacity"`
	Size     uint32 `json:"size"`
}

// Entry is a committed ciphertext handle tagged with the model-version
// generation active at append time. Entries are immutable.
type Entry struct {
	Ciphertext types.HexBytes `json:"ciphertext"`
	Generation uint32         `json:"generation"`
}

// DecryptionContext is the pending state of an asynchronous decryption
// request. Processed flips false to true exactly once.
type DecryptionContext struct {
	RequestID  uint64         `json:"requestId"`
	BatchID    uint64         `json:"batchId"`
	Generation uint32         `json:"generation"`
	Hash       types.HexBytes `json:"hash"`
	Requester  common.Address `json:"requester"`
	Processed  bool           `json:"processed"`
}

// Result is the public outcome of a completed decryption request.
type Result struct {
	RequestID uint64        `json:"requestId"`
	Value     *types.BigInt `json:"value"`
}
