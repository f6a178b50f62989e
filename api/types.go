package api

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

// ProviderRequest adds or removes a provider identity.
type ProviderRequest struct {
	Provider common.Address `json:"provider"`
}

// CooldownRequest updates the per-provider cooldown.
type CooldownRequest struct {
	CooldownSeconds uint64 `json:"cooldownSeconds"`
}

// OpenBatchRequest opens a new batch with the given capacity.
type OpenBatchRequest struct {
	Capacity uint32 `json:"capacity"`
}

// OpenBatchResponse is the response to a batch creation request.
type OpenBatchResponse struct {
	BatchID uint64 `json:"batchId"`
}

// CommitRequest commits a serialized encrypted entry to a batch.
type CommitRequest struct {
	Ciphertext types.HexBytes `json:"ciphertext"`
}

// DecryptResponse is the response to a decryption request: the oracle
// request identifier to poll for the result.
type DecryptResponse struct {
	RequestID uint64 `json:"requestId"`
}

// CallbackRequest is the oracle decryption result delivery.
type CallbackRequest struct {
	RequestID uint64         `json:"requestId"`
	Cleartext *types.BigInt  `json:"cleartext"`
	Proof     types.HexBytes `json:"proof"`
}

// ConfigResponse is the public tally configuration.
type ConfigResponse struct {
	Owner           common.Address `json:"owner"`
	Paused          bool           `json:"paused"`
	CooldownSeconds uint64         `json:"cooldownSeconds"`
	CurrentBatch    uint64         `json:"currentBatch"`
	Generation      uint32         `json:"generation"`
}

// BatchResponse is the public state of a batch.
type BatchResponse struct {
	ID       uint64 `json:"id"`
	Open     bool   `json:"open"`
	Capacity uint32 `json:"capacity"`
	Size     uint32 `json:"size"`
}

// RequestStatusResponse is the public state of a decryption request.
type RequestStatusResponse struct {
	RequestID uint64        `json:"requestId"`
	Processed bool          `json:"processed"`
	Result    *types.BigInt `json:"result,omitempty"`
}
