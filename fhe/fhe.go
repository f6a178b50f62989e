// Package fhe declares the encrypted-arithmetic capability consumed by the
// tally core. The core never inspects plaintext: it sums opaque ciphertext
// handles through the Scheme interface and delegates decryption to an
// asynchronous Oracle whose responses carry a verifiable proof. The concrete
// primitives live outside the core; the crypto/elgamal package provides the
// reference implementation and the oracle package the reference decryption
// service.
package fhe

import (
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// Ciphertext is an opaque handle to an encrypted value. Serialize must be
// deterministic: two handles representing the same encrypted value always
// produce identical bytes, so serialized aggregates can feed integrity
// hashes.
type Ciphertext interface {
	Serialize() []byte
}

// Scheme is the homomorphic arithmetic capability.
type Scheme interface {
	// Zero returns an explicitly constructed encryption of zero, the
	// accumulator seed for aggregation.
	Zero() Ciphertext
	// Add returns the homomorphic sum of a and b.
	Add(a, b Ciphertext) (Ciphertext, error)
	// IsInitialized reports whether the handle holds a usable encrypted
	// value, rejecting default or partially constructed handles.
	IsInitialized(c Ciphertext) bool
	// Deserialize decodes a handle from its serialized form.
	Deserialize(data []byte) (Ciphertext, error)
}

// Oracle is the asynchronous decryption capability. RequestDecryption
// returns immediately with a fresh unique request identifier; the cleartext
// and proof arrive later through an independent callback.
type Oracle interface {
	RequestDecryption(aggregate Ciphertext) (requestID uint64, err error)
}

// ProofVerifier validates an oracle response. Authenticity of a callback is
// established solely through the proof, never through caller identity.
type ProofVerifier interface {
	VerifyProof(requestID uint64, cleartext *types.BigInt, proof []byte) bool
}
