package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// CreateBatch stores a new batch. It fails if a batch with the same
// identifier already exists: identifiers are never reused. When cfg is not
// nil it is written in the same transaction, so the current-batch pointer
// moves together with the batch it points to.
func (s *Storage) CreateBatch(b *Batch, cfg *Config) error {
	exists, err := s.hasArtifact(batchPrefix, batchKey(b.ID))
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}

	tx := s.db.WriteTx()
	if err := setInTx(tx, batchPrefix, batchKey(b.ID), b); err != nil {
		tx.Discard()
		return fmt.Errorf("set batch: %w", err)
	}
	if cfg != nil {
		if err := setInTx(tx, configPrefix, configKey, cfg); err != nil {
			tx.Discard()
			return fmt.Errorf("set config: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// Batch retrieves a batch by identifier. It returns ErrNotFound if the
// batch does not exist.
func (s *Storage) Batch(id uint64) (*Batch, error) {
	b := &Batch{}
	if err := s.getArtifact(batchPrefix, batchKey(id), b); err != nil {
		return nil, err
	}
	return b, nil
}

// SetBatch overwrites a stored batch.
func (s *Storage) SetBatch(b *Batch) error {
	return s.setArtifact(batchPrefix, batchKey(b.ID), b)
}

// ListBatches returns the identifiers of every stored batch in ascending
// order.
func (s *Storage) ListBatches() ([]uint64, error) {
	keys, err := s.listKeys(batchPrefix, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(keys))
	for _, k := range keys {
		if len(k) != 8 {
			return nil, fmt.Errorf("malformed batch key %x", k)
		}
		ids = append(ids, binary.BigEndian.Uint64(k))
	}
	return ids, nil
}

// AppendEntry stores the entry at the next slot of the batch, increments
// the batch size and records the provider's accepted action, in a single
// write transaction: either every write lands or none does. The caller is
// responsible for the capacity and lifecycle checks.
func (s *Storage) AppendEntry(b *Batch, e *Entry, provider common.Address, at time.Time) error {
	slot := b.Size + 1
	updated := *b
	updated.Size = slot

	tx := s.db.WriteTx()
	if err := setInTx(tx, entryPrefix, entryKey(b.ID, slot), e); err != nil {
		tx.Discard()
		return fmt.Errorf("set entry: %w", err)
	}
	if err := setInTx(tx, batchPrefix, batchKey(b.ID), &updated); err != nil {
		tx.Discard()
		return fmt.Errorf("set batch: %w", err)
	}
	if err := setInTx(tx, rateLimitPrefix, provider.Bytes(), at.UnixNano()); err != nil {
		tx.Discard()
		return fmt.Errorf("set last action: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	b.Size = slot
	return nil
}

// Entries returns the entries of the batch ordered by ascending slot index.
func (s *Storage) Entries(batchID uint64) ([]*Entry, error) {
	rTx := prefixeddb.NewPrefixedReader(s.db, entryPrefix)
	prefix := make([]byte, 8)
	binary.BigEndian.PutUint64(prefix, batchID)
	var entries []*Entry
	var iterErr error
	if err := rTx.Iterate(prefix, func(_, v []byte) bool {
		e := &Entry{}
		if err := decodeArtifact(v, e); err != nil {
			iterErr = fmt.Errorf("decode entry: %w", err)
			return false
		}
		entries = append(entries, e)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return entries, nil
}
