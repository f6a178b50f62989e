package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/tally"
)

// Error codes in the 40001-49999 range are the client's fault, codes in the
// 50001-59999 range are the server's fault. Never change an existing code,
// only append new errors after the current last one.
var (
	ErrResourceNotFound  = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody     = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMissingSignature  = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("missing or malformed caller signature")}
	ErrMalformedParam    = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed URL parameter")}
	ErrUnauthorized      = Error{Code: 40010, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("caller not authorized")}
	ErrLifecycle         = Error{Code: 40011, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("lifecycle precondition failed")}
	ErrRateLimited       = Error{Code: 40012, HTTPstatus: http.StatusTooManyRequests, Err: fmt.Errorf("cooldown has not elapsed")}
	ErrConsistency       = Error{Code: 40013, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("state drifted between request and callback")}
	ErrInvalidProof      = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("proof verification failed")}
	ErrDuplicateDelivery = Error{Code: 40015, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("unknown or already processed request")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)

// errorFromEngine maps an engine failure to the API error catalog, keeping
// the engine's message as detail.
func errorFromEngine(err error) Error {
	switch {
	case errors.Is(err, tally.ErrAuthorization):
		return ErrUnauthorized.WithErr(err)
	case errors.Is(err, tally.ErrRateLimit):
		return ErrRateLimited.WithErr(err)
	case errors.Is(err, tally.ErrConsistency):
		return ErrConsistency.WithErr(err)
	case errors.Is(err, tally.ErrProof):
		return ErrInvalidProof.WithErr(err)
	case errors.Is(err, tally.ErrBatchUnknown), errors.Is(err, tally.ErrUnknownRequest):
		return ErrResourceNotFound.WithErr(err)
	case errors.Is(err, tally.ErrDuplicateDelivery):
		return ErrDuplicateDelivery.WithErr(err)
	case errors.Is(err, tally.ErrLifecycle):
		return ErrLifecycle.WithErr(err)
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
