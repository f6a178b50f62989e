package tally

import (
	"encoding/binary"
	"fmt"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ethereum"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/fhe"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/storage"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// aggregate homomorphically sums the entries of a batch. It is a pure
// function of the ordered entry list and the target generation: two runs
// over the same inputs produce handles with bit-identical serializations,
// which is what makes the integrity-hash recheck sound. Entries are folded
// in ascending slot order starting from an explicitly constructed encrypted
// zero. Any entry tagged with a different generation aborts the whole
// aggregation; so does any handle that is not an initialized encrypted
// value.
func (e *Engine) aggregate(entries []*storage.Entry, generation uint32) (fhe.Ciphertext, error) {
	acc := e.scheme.Zero()
	for slot, entry := range entries {
		if entry.Generation != generation {
			return nil, fmt.Errorf("%w: slot %d has generation %d, want %d",
				ErrStaleGeneration, slot+1, entry.Generation, generation)
		}
		handle, err := e.scheme.Deserialize(entry.Ciphertext)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrUninitializedCiphertext, slot+1, err)
		}
		if !e.scheme.IsInitialized(handle) {
			return nil, fmt.Errorf("%w: slot %d", ErrUninitializedCiphertext, slot+1)
		}
		if acc, err = e.scheme.Add(acc, handle); err != nil {
			return nil, fmt.Errorf("homomorphic add at slot %d: %w", slot+1, err)
		}
	}
	return acc, nil
}

// integrityHash commits to the serialized aggregate, bound to the service
// identity and the batch/generation it was computed over. Binding the
// service identity prevents a hash computed by one deployment from being
// replayed against another.
func integrityHash(serviceID types.HexBytes, batchID uint64, generation uint32, aggregate fhe.Ciphertext) types.HexBytes {
	buf := make([]byte, 0, len(serviceID)+12)
	buf = append(buf, serviceID...)
	buf = binary.BigEndian.AppendUint64(buf, batchID)
	buf = binary.BigEndian.AppendUint32(buf, generation)
	buf = append(buf, aggregate.Serialize()...)
	return ethereum.HashRaw(buf)
}
