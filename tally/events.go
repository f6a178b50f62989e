package tally

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// EventType identifies an externally observable state change.
type EventType string

const (
	EventProviderAdded       EventType = "provider-added"
	EventProviderRemoved     EventType = "provider-removed"
	EventPaused              EventType = "paused"
	EventUnpaused            EventType = "unpaused"
	EventCooldownUpdated     EventType = "cooldown-updated"
	EventBatchOpened         EventType = "batch-opened"
	EventBatchClosed         EventType = "batch-closed"
	EventEntryCommitted      EventType = "entry-committed"
	EventDecryptionRequested EventType = "decryption-requested"
	EventDecryptionCompleted EventType = "decryption-completed"
)

// Event is emitted after an operation commits its state changes. Besides
// persisted state, events are the only externally observable side effect of
// the engine. Only the fields relevant to the event type are set.
type Event struct {
	Type      EventType      `json:"type"`
	Provider  common.Address `json:"provider,omitempty"`
	Cooldown  time.Duration  `json:"cooldown,omitempty"`
	BatchID   uint64         `json:"batchId,omitempty"`
	Slot      uint32         `json:"slot,omitempty"`
	RequestID uint64         `json:"requestId,omitempty"`
	Result    *types.BigInt  `json:"result,omitempty"`
}

// Events returns the channel where the engine publishes its events.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// emit publishes the event without blocking. If no consumer keeps up with
// the buffer the event is dropped; persisted state remains the source of
// truth.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		log.Warnw("event buffer full, dropping event", "type", string(ev.Type))
	}
}
