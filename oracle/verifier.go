package oracle

import (
	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ethereum"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/fhe"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// Verifier validates result proofs against a fixed set of expected signers.
// It implements fhe.ProofVerifier.
type Verifier struct {
	signers map[common.Address]bool
}

var _ fhe.ProofVerifier = (*Verifier)(nil)

// NewVerifier creates a Verifier accepting signatures from the given
// addresses.
func NewVerifier(signers ...common.Address) *Verifier {
	set := make(map[common.Address]bool, len(signers))
	for _, addr := range signers {
		set[addr] = true
	}
	return &Verifier{signers: set}
}

// VerifyProof recovers the address that signed the result payload and
// reports whether it belongs to the expected signer set. The payload binds
// the request identifier and the cleartext, so a proof for one result never
// validates another.
func (v *Verifier) VerifyProof(requestID uint64, cleartext *types.BigInt, proof []byte) bool {
	addr, err := ethereum.AddrFromSignature(ResultPayload(requestID, cleartext), proof)
	if err != nil {
		log.Debugw("proof recovery failed", "requestID", requestID, "error", err.Error())
		return false
	}
	return v.signers[addr]
}
