// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/diem/client-sdk-go/txs"
	"github.com/diem/client-sdk-go/utils/constants"
	"github.com/diem/client-sdk-go/utils/crypto"
	"github.com/diem/client-sdk-go/utils/rpc"
)

const (
	testChainID = constants.TestingID
	testURL     = "http://localhost:8080/v1"

	// far enough in the future that no test ledger reaches it
	farExpiration = 4_000_000_000
)

func newTestConfig(transport rpc.Transport) Config {
	config := DefaultConfig(testURL, testChainID)
	config.Transport = transport
	config.RetryBaseDelay = time.Millisecond
	config.WaitPollInterval = time.Millisecond
	config.Registerer = prometheus.NewRegistry()
	return config
}

func newTestClient(t *testing.T, config Config) *client {
	t.Helper()

	c, err := NewClient(config)
	require.NoError(t, err)
	return c.(*client)
}

// rpcResponse returns the body of a successful response served at
// [version] and [timestamp] on the test chain.
func rpcResponse(t *testing.T, version, timestamp uint64, result interface{}) []byte {
	t.Helper()
	return rpcResponseOn(t, testChainID, version, timestamp, result)
}

func rpcResponseOn(t *testing.T, chainID constants.ChainID, version, timestamp uint64, result interface{}) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc":                   rpc.Version,
		"id":                        0,
		"diem_chain_id":             uint8(chainID),
		"diem_ledger_version":       version,
		"diem_ledger_timestampusec": timestamp,
		"result":                    result,
	})
	require.NoError(t, err)
	return body
}

// decodeRequest returns the method and params of a request body.
func decodeRequest(t *testing.T, body []byte) (string, []interface{}) {
	t.Helper()

	req := rpc.Request{}
	require.NoError(t, json.Unmarshal(body, &req))
	require.Equal(t, rpc.Version, req.JSONRPC)
	return req.Method, req.Params
}

func testSignedTx(t *testing.T, expiration uint64) *txs.SignedTransaction {
	t.Helper()

	factory := &crypto.FactoryED25519{}
	key, err := factory.ToPrivateKey(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)

	raw := txs.NewRawTransaction(
		key.PublicKey().Address(),
		3,
		&txs.Script{Code: []byte{0xa1, 0x1c, 0xeb, 0x0b}},
		testChainID,
		txs.WithExpirationTimestamp(expiration),
	)
	tx, err := txs.Sign(key, raw)
	require.NoError(t, err)
	return tx
}

// fakeNode serves every method over http. Successive responses are served
// at increasing versions.
type fakeNode struct {
	lock sync.Mutex

	version   uint64
	timestamp uint64
	polls     int
	submitted []string

	// poll returns the result of the [n]-th get_account_transaction call
	poll func(n int) interface{}
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := rpc.Request{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.lock.Lock()
	defer n.lock.Unlock()

	var result interface{}
	switch req.Method {
	case MethodSubmit:
		if len(req.Params) == 1 {
			if txHex, ok := req.Params[0].(string); ok {
				n.submitted = append(n.submitted, txHex)
			}
		}
	case MethodGetAccountTransaction:
		n.polls++
		if n.poll != nil {
			result = n.poll(n.polls)
		}
	}
	n.version++

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc":                   rpc.Version,
		"id":                        req.ID,
		"diem_chain_id":             uint8(testChainID),
		"diem_ledger_version":       n.version,
		"diem_ledger_timestampusec": n.timestamp,
		"result":                    result,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (n *fakeNode) Polls() int {
	n.lock.Lock()
	defer n.lock.Unlock()

	return n.polls
}

func (n *fakeNode) Submitted() []string {
	n.lock.Lock()
	defer n.lock.Unlock()

	return append([]string(nil), n.submitted...)
}

func newFakeNodeClient(t *testing.T, node *fakeNode) *client {
	t.Helper()

	server := httptest.NewServer(node)
	t.Cleanup(server.Close)

	config := newTestConfig(nil)
	config.URL = server.URL
	config.HTTPClient = server.Client()
	return newTestClient(t, config)
}
