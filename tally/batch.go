package tally

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/storage"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// OpenBatch creates a new open batch with the given capacity and makes it
// the current batch. Owner only. Batch identifiers are strictly increasing
// and never reused.
func (e *Engine) OpenBatch(caller common.Address, capacity uint32) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.gateOwner(caller)
	if err != nil {
		return 0, err
	}
	if capacity == 0 {
		return 0, ErrInvalidCapacity
	}
	b := &storage.Batch{
		ID:       cfg.CurrentBatch + 1,
		Open:     true,
		Capacity: capacity,
	}
	cfg.CurrentBatch = b.ID
	if err := e.stg.CreateBatch(b, cfg); err != nil {
		return 0, fmt.Errorf("create batch: %w", err)
	}
	log.Infow("batch opened", "batchID", b.ID, "capacity", capacity)
	e.emit(Event{Type: EventBatchOpened, BatchID: b.ID})
	return b.ID, nil
}

// CloseBatch permanently closes a batch. Owner only. There is no reopen
// operation: once closed, no commit to the batch ever succeeds again.
func (e *Engine) CloseBatch(caller common.Address, batchID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.gateOwner(caller); err != nil {
		return err
	}
	b, err := e.stg.Batch(batchID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrBatchUnknown
		}
		return err
	}
	if !b.Open {
		return ErrBatchClosed
	}
	b.Open = false
	if err := e.stg.SetBatch(b); err != nil {
		return err
	}
	log.Infow("batch closed", "batchID", batchID, "size", b.Size)
	e.emit(Event{Type: EventBatchClosed, BatchID: batchID})
	return nil
}

// Commit appends an encrypted entry to an open batch with spare capacity,
// tagging it with the current model-version generation. Provider only,
// subject to the pause flag and the cooldown. The serialized ciphertext
// must decode to an initialized handle.
func (e *Engine) Commit(caller common.Address, batchID uint64, ciphertext types.HexBytes) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.gateProvider(caller)
	if err != nil {
		return err
	}
	b, err := e.stg.Batch(batchID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrBatchUnknown
		}
		return err
	}
	if !b.Open {
		return ErrBatchClosed
	}
	if b.Size >= b.Capacity {
		return ErrBatchFull
	}
	handle, err := e.scheme.Deserialize(ciphertext)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUninitializedCiphertext, err)
	}
	if !e.scheme.IsInitialized(handle) {
		return ErrUninitializedCiphertext
	}

	// All checks passed; the entry and the accepted-action stamp land in
	// one transaction.
	entry := &storage.Entry{Ciphertext: ciphertext, Generation: cfg.Generation}
	if err := e.stg.AppendEntry(b, entry, caller, e.now()); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	log.Debugw("entry committed",
		"batchID", batchID,
		"slot", b.Size,
		"generation", cfg.Generation,
		"provider", caller.String(),
	)
	e.emit(Event{Type: EventEntryCommitted, BatchID: batchID, Slot: b.Size, Provider: caller})
	return nil
}
