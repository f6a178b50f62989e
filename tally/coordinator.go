package tally

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/storage"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// RequestDecryption aggregates the current entries of a non-empty batch and
// forwards the encrypted aggregate to the decryption oracle. Provider only,
// subject to the pause flag and the cooldown. It captures the integrity
// hash of the aggregate and stores a pending decryption context, then
// returns the oracle's fresh request identifier without waiting for the
// decryption.
//
// A context has exactly two states, pending and completed. Nothing cancels,
// retries or expires a pending request: progress depends entirely on the
// oracle eventually calling back. Concurrent outstanding requests on the
// same batch are allowed; the hash recheck in OnDecrypted arbitrates.
func (e *Engine) RequestDecryption(caller common.Address, batchID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.gateProvider(caller)
	if err != nil {
		return 0, err
	}
	b, err := e.stg.Batch(batchID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrBatchUnknown
		}
		return 0, err
	}
	if b.Size == 0 {
		return 0, ErrEmptyBatch
	}
	entries, err := e.stg.Entries(batchID)
	if err != nil {
		return 0, err
	}
	aggregate, err := e.aggregate(entries, cfg.Generation)
	if err != nil {
		return 0, err
	}
	hash := integrityHash(cfg.ServiceID, batchID, cfg.Generation, aggregate)

	// All checks passed; submit first, so a failed submission leaves no
	// trace, then persist the context and the accepted-action stamp in one
	// transaction.
	requestID, err := e.oracle.RequestDecryption(aggregate)
	if err != nil {
		return 0, fmt.Errorf("oracle request: %w", err)
	}
	ctx := &storage.DecryptionContext{
		RequestID:  requestID,
		BatchID:    batchID,
		Generation: cfg.Generation,
		Hash:       hash,
		Requester:  caller,
		Processed:  false,
	}
	if err := e.stg.CreateContext(ctx, e.now()); err != nil {
		return 0, fmt.Errorf("create context: %w", err)
	}
	log.Infow("decryption requested",
		"requestID", requestID,
		"batchID", batchID,
		"size", b.Size,
		"generation", cfg.Generation,
	)
	e.emit(Event{Type: EventDecryptionRequested, BatchID: batchID, RequestID: requestID, Provider: caller})
	return requestID, nil
}

// OnDecrypted is the oracle callback. It is not identity-gated: the
// authenticity of the response is established solely by the proof. The
// engine re-aggregates the batch's current entries at the generation
// captured at request time and recomputes the integrity hash; a mismatch
// means commits landed between request and callback, and the call aborts
// leaving the context pending. On a hash match the proof is verified
// against the cleartext and the expected signer set, the public result is
// recorded, and the context becomes processed, permanently.
func (e *Engine) OnDecrypted(requestID uint64, cleartext *types.BigInt, proof []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, err := e.stg.Context(requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUnknownRequest
		}
		return err
	}
	if ctx.Processed {
		return fmt.Errorf("%w: request %d already processed", ErrDuplicateDelivery, requestID)
	}
	cfg, err := e.config()
	if err != nil {
		return err
	}
	entries, err := e.stg.Entries(ctx.BatchID)
	if err != nil {
		return err
	}
	aggregate, err := e.aggregate(entries, ctx.Generation)
	if err != nil {
		return err
	}
	hash := integrityHash(cfg.ServiceID, ctx.BatchID, ctx.Generation, aggregate)
	if !bytes.Equal(hash, ctx.Hash) {
		return fmt.Errorf("%w: request %d", ErrHashMismatch, requestID)
	}
	if !e.verifier.VerifyProof(requestID, cleartext, proof) {
		return fmt.Errorf("%w: request %d", ErrInvalidProof, requestID)
	}
	result := &storage.Result{RequestID: requestID, Value: cleartext}
	if err := e.stg.CompleteContext(ctx, result); err != nil {
		return fmt.Errorf("complete context: %w", err)
	}
	log.Infow("decryption completed",
		"requestID", requestID,
		"batchID", ctx.BatchID,
		"result", cleartext.String(),
	)
	e.emit(Event{Type: EventDecryptionCompleted, BatchID: ctx.BatchID, RequestID: requestID, Result: cleartext})
	return nil
}
