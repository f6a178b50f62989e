package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
)

// initialize bootstraps the tally state, owned by the signing caller.
// POST /tally/initialize
func (a *API) initialize(w http.ResponseWriter, r *http.Request) {
	_, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	if err := a.engine.Initialize(caller); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// config returns the public tally configuration.
// GET /tally/config
func (a *API) config(w http.ResponseWriter, _ *http.Request) {
	paused, err := a.engine.Paused()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	cooldown, err := a.engine.Cooldown()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	current, err := a.engine.CurrentBatchID()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	generation, err := a.engine.Generation()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &ConfigResponse{
		Owner:           a.engine.Owner(),
		Paused:          paused,
		CooldownSeconds: uint64(cooldown / time.Second),
		CurrentBatch:    current,
		Generation:      generation,
	})
}

// setCooldown updates the provider cooldown.
// POST /tally/cooldown
func (a *API) setCooldown(w http.ResponseWriter, r *http.Request) {
	body, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	req := &CooldownRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	cooldown := time.Duration(req.CooldownSeconds) * time.Second
	if err := a.engine.SetCooldown(caller, cooldown); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// pause suspends provider operations.
// POST /tally/pause
func (a *API) pause(w http.ResponseWriter, r *http.Request) {
	_, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	if err := a.engine.Pause(caller); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// unpause resumes provider operations.
// POST /tally/unpause
func (a *API) unpause(w http.ResponseWriter, r *http.Request) {
	_, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	if err := a.engine.Unpause(caller); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// addProvider adds an identity to the provider set.
// POST /tally/providers
func (a *API) addProvider(w http.ResponseWriter, r *http.Request) {
	body, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	req := &ProviderRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if err := a.engine.AddProvider(caller, req.Provider); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// removeProvider removes an identity from the provider set.
// DELETE /tally/providers/{address}
func (a *API) removeProvider(w http.ResponseWriter, r *http.Request) {
	_, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	if !common.IsHexAddress(chi.URLParam(r, ProviderURLParam)) {
		ErrMalformedParam.With("invalid provider address").Write(w)
		return
	}
	provider := common.HexToAddress(chi.URLParam(r, ProviderURLParam))
	if err := a.engine.RemoveProvider(caller, provider); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// provider reports whether an identity belongs to the provider set.
// GET /tally/providers/{address}
func (a *API) provider(w http.ResponseWriter, r *http.Request) {
	if !common.IsHexAddress(chi.URLParam(r, ProviderURLParam)) {
		ErrMalformedParam.With("invalid provider address").Write(w)
		return
	}
	addr := common.HexToAddress(chi.URLParam(r, ProviderURLParam))
	isProvider, err := a.engine.IsProvider(addr)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, map[string]any{"provider": addr, "isProvider": isProvider})
}

// openBatch creates a new capacity-bounded batch.
// POST /tally/batches
func (a *API) openBatch(w http.ResponseWriter, r *http.Request) {
	body, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	req := &OpenBatchRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	id, err := a.engine.OpenBatch(caller, req.Capacity)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &OpenBatchResponse{BatchID: id})
}

// batch returns the public state of a batch.
// GET /tally/batches/{batchId}
func (a *API) batch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, BatchURLParam), 10, 64)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	b, err := a.engine.Batch(id)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &BatchResponse{ID: b.ID, Open: b.Open, Capacity: b.Capacity, Size: b.Size})
}

// closeBatch permanently closes a batch.
// POST /tally/batches/{batchId}/close
func (a *API) closeBatch(w http.ResponseWriter, r *http.Request) {
	_, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, BatchURLParam), 10, 64)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	if err := a.engine.CloseBatch(caller, id); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// commit appends an encrypted entry to a batch.
// POST /tally/batches/{batchId}/entries
func (a *API) commit(w http.ResponseWriter, r *http.Request) {
	body, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, BatchURLParam), 10, 64)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	req := &CommitRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if err := a.engine.Commit(caller, id, req.Ciphertext); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// requestDecryption aggregates a batch and submits it to the oracle.
// POST /tally/batches/{batchId}/decrypt
func (a *API) requestDecryption(w http.ResponseWriter, r *http.Request) {
	_, caller, apiErr := readSignedBody(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, BatchURLParam), 10, 64)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	requestID, err := a.engine.RequestDecryption(caller, id)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &DecryptResponse{RequestID: requestID})
}

// callback receives an oracle decryption result. It is not identity-gated:
// the engine accepts it solely on proof verification.
// POST /tally/callback
func (a *API) callback(w http.ResponseWriter, r *http.Request) {
	req := &CallbackRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if err := a.engine.OnDecrypted(req.RequestID, req.Cleartext, req.Proof); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// request returns the state of a decryption request.
// GET /tally/requests/{requestId}
func (a *API) request(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, RequestURLParam), 10, 64)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	processed, err := a.engine.ContextProcessed(id)
	if err != nil {
		ErrResourceNotFound.WithErr(err).Write(w)
		return
	}
	resp := &RequestStatusResponse{RequestID: id, Processed: processed}
	if processed {
		result, err := a.engine.Result(id)
		if err != nil {
			errorFromEngine(err).Write(w)
			return
		}
		resp.Result = result
	}
	httpWriteJSON(w, resp)
}
