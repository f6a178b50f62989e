package api

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ethereum"
)

// SignatureHeader carries the hex encoded caller signature over the raw
// request body. The recovered address is the caller identity for the
// engine's owner and provider checks.
const SignatureHeader = "X-Caller-Signature"

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// readSignedBody reads the request body and recovers the caller address
// from the signature header. The signature covers the raw body bytes.
func readSignedBody(r *http.Request) ([]byte, common.Address, *Error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apiErr := ErrMalformedBody.WithErr(err)
		return nil, common.Address{}, &apiErr
	}
	sigHex := strings.TrimPrefix(r.Header.Get(SignatureHeader), "0x")
	if sigHex == "" {
		apiErr := ErrMissingSignature
		return nil, common.Address{}, &apiErr
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		apiErr := ErrMissingSignature.WithErr(err)
		return nil, common.Address{}, &apiErr
	}
	caller, err := ethereum.AddrFromSignature(body, sig)
	if err != nil {
		apiErr := ErrMissingSignature.WithErr(err)
		return nil, common.Address{}, &apiErr
	}
	return body, caller, nil
}
