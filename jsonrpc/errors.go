// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/diem/client-sdk-go/ledger"
)

// ErrorKind enumerates every way a client call can fail.
type ErrorKind uint8

const (
	// KindUnknown is returned by KindOf for errors not produced by a Client.
	KindUnknown ErrorKind = iota
	// KindConfiguration is a malformed endpoint, chain id or key.
	KindConfiguration
	// KindChainMismatch is a response from a different network.
	KindChainMismatch
	// KindStaleResponse is a response served behind the tracked watermark.
	KindStaleResponse
	// KindRemoteCall is an I/O failure of the transport.
	KindRemoteCall
	// KindInvalidResponse is a non 200 status or an undecodable body.
	KindInvalidResponse
	// KindJSONRPC is a request the server explicitly rejected.
	KindJSONRPC
	// KindHashMismatch is an included transaction with an unexpected hash.
	KindHashMismatch
	// KindExecutionFailed is an included transaction that did not execute.
	KindExecutionFailed
	// KindExpired is a transaction that can no longer be included.
	KindExpired
	// KindTimedOut is a wait that ran out of time.
	KindTimedOut
)

var kindNames = map[ErrorKind]string{
	KindUnknown:         "unknown",
	KindConfiguration:   "configuration",
	KindChainMismatch:   "chain_mismatch",
	KindStaleResponse:   "stale_response",
	KindRemoteCall:      "remote_call",
	KindInvalidResponse: "invalid_response",
	KindJSONRPC:         "json_rpc",
	KindHashMismatch:    "hash_mismatch",
	KindExecutionFailed: "execution_failed",
	KindExpired:         "expired",
	KindTimedOut:        "timed_out",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is returned by every Client operation. Only the fields relevant to
// Kind are set.
type Error struct {
	Kind   ErrorKind
	Method string

	// KindInvalidResponse
	StatusCode int
	Body       []byte

	// KindJSONRPC
	RPCError *json2.Error

	// KindStaleResponse and KindChainMismatch
	Tracked  ledger.State
	Observed ledger.State

	// Confirmation outcomes
	Transaction  *Transaction
	ExpectedHash string
	ActualHash   string
	Expiration   time.Time
	Timeout      time.Duration

	Err error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindInvalidResponse:
		msg = fmt.Sprintf("invalid response with status %d: %q", e.StatusCode, truncate(e.Body))
	case KindJSONRPC:
		msg = fmt.Sprintf("server rejected request with code %d: %s", e.RPCError.Code, e.RPCError.Message)
	case KindHashMismatch:
		msg = fmt.Sprintf("expected transaction hash %s but found %s", e.ExpectedHash, e.ActualHash)
	case KindExecutionFailed:
		msg = fmt.Sprintf("transaction %s failed with vm status %s", e.ExpectedHash, e.Transaction.VMStatus.Type)
	case KindExpired:
		msg = fmt.Sprintf("transaction %s expired at %s", e.ExpectedHash, e.Expiration.UTC())
	case KindTimedOut:
		msg = fmt.Sprintf("transaction %s not found after %s", e.ExpectedHash, e.Timeout)
	default:
		if e.Err != nil {
			msg = e.Err.Error()
		}
	}
	if e.Method != "" {
		return fmt.Sprintf("%s: %s: %s", e.Method, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of [err], or KindUnknown if [err] is not an *Error.
func KindOf(err error) ErrorKind {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}
	return KindUnknown
}

// IsStale returns true if [err] is a stale response. Reads are retried on
// exactly these errors.
func IsStale(err error) bool {
	return KindOf(err) == KindStaleResponse
}

func configurationError(err error) *Error {
	return &Error{Kind: KindConfiguration, Err: err}
}

// ledgerError maps a tracker rejection onto its kind.
func ledgerError(method string, err error) *Error {
	var (
		mismatch *ledger.ChainMismatchError
		stale    *ledger.StaleResponseError
	)
	switch {
	case errors.As(err, &mismatch):
		return &Error{
			Kind:     KindChainMismatch,
			Method:   method,
			Tracked:  ledger.State{ChainID: mismatch.Expected},
			Observed: ledger.State{ChainID: mismatch.Actual},
			Err:      err,
		}
	case errors.As(err, &stale):
		return &Error{
			Kind:     KindStaleResponse,
			Method:   method,
			Tracked:  stale.Tracked,
			Observed: stale.Observed,
			Err:      err,
		}
	default:
		return &Error{Kind: KindUnknown, Method: method, Err: err}
	}
}

const maxBodyInError = 256

func truncate(body []byte) []byte {
	if len(body) > maxBodyInError {
		return body[:maxBodyInError]
	}
	return body
}
