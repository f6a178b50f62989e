// Package storage persists the whole tally state in a prefixed key-value
// store. Every artifact is encoded with deterministic CBOR. The following
// prefixes are used:
//   - 'c/'  for the global configuration (single key)
//   - 'pv/' for the provider set
//   - 'rl/' for the rate-limit table
//   - 'b/'  for batches
//   - 'e/'  for ciphertext entries (key batchID||slot, dense and contiguous)
//   - 'd/'  for decryption contexts
//   - 'r/'  for published decryption results
//
// Multi-artifact mutations (entry append plus rate-limit stamp, context
// creation plus rate-limit stamp, batch creation plus configuration update,
// context completion plus result) are committed through a single write
// transaction, so they are atomic: either every write lands or none does.
package storage

import (
	"errors"
	"fmt"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	configPrefix    = []byte("c/")
	providerPrefix  = []byte("pv/")
	rateLimitPrefix = []byte("rl/")
	batchPrefix     = []byte("b/")
	entryPrefix     = []byte("e/")
	contextPrefix   = []byte("d/")
	resultPrefix    = []byte("r/")
)

// ErrNotFound is returned when the requested artifact does not exist.
var ErrNotFound = errors.New("not found")

// Storage wraps the database with typed accessors for the tally artifacts.
type Storage struct {
	db db.Database
}

// New creates a new Storage instance over the given database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

// getArtifact reads and decodes the artifact stored under prefix/key into
// out. It returns ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	rTx := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := rTx.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get artifact: %w", err)
	}
	return decodeArtifact(data, out)
}

// setArtifact encodes and stores the artifact under prefix/key.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return fmt.Errorf("set artifact: %w", err)
	}
	return wTx.Commit()
}

// setInTx encodes and stages the artifact under prefix/key inside an open
// write transaction. The caller owns the commit or discard.
func setInTx(tx db.WriteTx, prefix, key []byte, artifact any) error {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	return prefixeddb.NewPrefixedWriteTx(tx, prefix).Set(key, data)
}

// deleteArtifact removes the artifact stored under prefix/key.
func (s *Storage) deleteArtifact(prefix, key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Delete(key); err != nil {
		wTx.Discard()
		return fmt.Errorf("delete artifact: %w", err)
	}
	return wTx.Commit()
}

// hasArtifact reports whether an artifact exists under prefix/key.
func (s *Storage) hasArtifact(prefix, key []byte) (bool, error) {
	rTx := prefixeddb.NewPrefixedReader(s.db, prefix)
	if _, err := rTx.Get(key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// listKeys returns all the keys stored under the given prefix, in the
// store's ascending key order.
func (s *Storage) listKeys(prefix, subPrefix []byte) ([][]byte, error) {
	rTx := prefixeddb.NewPrefixedReader(s.db, prefix)
	var keys [][]byte
	if err := rTx.Iterate(subPrefix, func(k, _ []byte) bool {
		key := make([]byte, len(k))
		copy(key, k)
		keys = append(keys, key)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return keys, nil
}
