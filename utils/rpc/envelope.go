// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/rpc/v2/json2"
)

// Version is the JSON-RPC protocol version of every request.
const Version = "2.0"

var errMissingVersion = errors.New("response is missing the jsonrpc version")

// Request is a JSON-RPC 2.0 request. Params are positional.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// EncodeRequest returns the body of a call to [method] with [params].
func EncodeRequest(method string, params ...interface{}) ([]byte, error) {
	if params == nil {
		params = []interface{}{}
	}
	return json.Marshal(&Request{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
	})
}

// Response is a JSON-RPC 2.0 response extended with the ledger state the
// full node served it at.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`

	ChainID             uint8  `json:"diem_chain_id"`
	LedgerVersion       uint64 `json:"diem_ledger_version"`
	LedgerTimestampUsec uint64 `json:"diem_ledger_timestampusec"`

	Result json.RawMessage `json:"result"`
	Error  *json2.Error    `json:"error"`
}

// DecodeResponse parses a response body.
func DecodeResponse(body []byte) (*Response, error) {
	resp := &Response{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.JSONRPC == "" {
		return nil, errMissingVersion
	}
	return resp, nil
}

// HasResult returns false if the result is absent or null.
func (r *Response) HasResult() bool {
	return len(r.Result) != 0 && string(r.Result) != "null"
}

// UnmarshalResult decodes the result into [reply].
func (r *Response) UnmarshalResult(reply interface{}) error {
	if err := json.Unmarshal(r.Result, reply); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

// Redacted returns [uri] with any password replaced, for logging.
func Redacted(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return u.Redacted()
}
