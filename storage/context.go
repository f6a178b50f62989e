package storage

import (
	"encoding/binary"
	"fmt"
	"time"
)

// CreateContext stores a new pending decryption context and records the
// requester's accepted action, in a single write transaction. It fails with
// ErrAlreadyExists if the request identifier is already in use: request
// identifiers are never reused.
func (s *Storage) CreateContext(ctx *DecryptionContext, at time.Time) error {
	exists, err := s.hasArtifact(contextPrefix, contextKey(ctx.RequestID))
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}

	tx := s.db.WriteTx()
	if err := setInTx(tx, contextPrefix, contextKey(ctx.RequestID), ctx); err != nil {
		tx.Discard()
		return fmt.Errorf("set context: %w", err)
	}
	if err := setInTx(tx, rateLimitPrefix, ctx.Requester.Bytes(), at.UnixNano()); err != nil {
		tx.Discard()
		return fmt.Errorf("set last action: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	return nil
}

// Context retrieves a decryption context by request identifier. It returns
// ErrNotFound if the context does not exist.
func (s *Storage) Context(requestID uint64) (*DecryptionContext, error) {
	ctx := &DecryptionContext{}
	if err := s.getArtifact(contextPrefix, contextKey(requestID), ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// CompleteContext marks the context as processed and stores its public
// result, in a single write transaction. The processed flag of a context
// flips at most once; the caller checks it before calling.
func (s *Storage) CompleteContext(ctx *DecryptionContext, result *Result) error {
	updated := *ctx
	updated.Processed = true

	tx := s.db.WriteTx()
	if err := setInTx(tx, contextPrefix, contextKey(ctx.RequestID), &updated); err != nil {
		tx.Discard()
		return fmt.Errorf("set context: %w", err)
	}
	if err := setInTx(tx, resultPrefix, contextKey(result.RequestID), result); err != nil {
		tx.Discard()
		return fmt.Errorf("set result: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("complete context: %w", err)
	}
	ctx.Processed = true
	return nil
}

// Result retrieves the public result of a completed decryption request. It
// returns ErrNotFound if the request has not completed.
func (s *Storage) Result(requestID uint64) (*Result, error) {
	r := &Result{}
	if err := s.getArtifact(resultPrefix, contextKey(requestID), r); err != nil {
		return nil, err
	}
	return r, nil
}

// LastRequestID returns the highest stored request identifier, or zero if
// no context exists. It seeds the oracle's identifier counter after a
// restart so identifiers keep strictly increasing.
func (s *Storage) LastRequestID() (uint64, error) {
	keys, err := s.listKeys(contextPrefix, nil)
	if err != nil {
		return 0, err
	}
	var last uint64
	for _, k := range keys {
		if len(k) != 8 {
			return 0, fmt.Errorf("malformed context key %x", k)
		}
		if id := binary.BigEndian.Uint64(k); id > last {
			last = id
		}
	}
	return last, nil
}
