package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Artifact encoding/decoding. The encoder uses the CBOR deterministic core
// rules so that equal artifacts always produce identical bytes.
func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// batchKey encodes a batch identifier as a big-endian key, so iteration
// order matches identifier order.
func batchKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// entryKey encodes a batchID/slot pair. Slots are 1-based; big-endian
// encoding keeps entries of one batch dense and ordered by slot.
func entryKey(batchID uint64, slot uint32) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint64(key[:8], batchID)
	binary.BigEndian.PutUint32(key[8:], slot)
	return key
}

// contextKey encodes a decryption request identifier.
func contextKey(requestID uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, requestID)
	return key
}
