// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/require"

	"github.com/diem/client-sdk-go/ledger"
	"github.com/diem/client-sdk-go/utils/constants"
)

func TestKindOf(t *testing.T) {
	require := require.New(t)

	require.Equal(KindUnknown, KindOf(nil))
	require.Equal(KindUnknown, KindOf(errors.New("other")))
	require.Equal(KindExpired, KindOf(&Error{Kind: KindExpired}))
	require.Equal(KindTimedOut, KindOf(fmt.Errorf("wrapped: %w", &Error{Kind: KindTimedOut})))

	require.True(IsStale(&Error{Kind: KindStaleResponse}))
	require.False(IsStale(&Error{Kind: KindChainMismatch}))
}

func TestErrorKindNames(t *testing.T) {
	require := require.New(t)

	seen := map[string]struct{}{}
	for kind := KindUnknown; kind <= KindTimedOut; kind++ {
		name := kind.String()
		require.NotContains(seen, name)
		seen[name] = struct{}{}
	}
	require.Equal("kind(200)", ErrorKind(200).String())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      *Error
		expected string
	}{
		{
			err: &Error{
				Kind:       KindInvalidResponse,
				Method:     MethodGetAccount,
				StatusCode: 503,
				Body:       []byte("busy"),
			},
			expected: `get_account: invalid_response: invalid response with status 503: "busy"`,
		},
		{
			err: &Error{
				Kind:     KindJSONRPC,
				Method:   MethodSubmit,
				RPCError: &json2.Error{Code: -32001, Message: "rejected"},
			},
			expected: "submit: json_rpc: server rejected request with code -32001: rejected",
		},
		{
			err: &Error{
				Kind:         KindHashMismatch,
				ExpectedHash: "aa",
				ActualHash:   "bb",
			},
			expected: "hash_mismatch: expected transaction hash aa but found bb",
		},
		{
			err: &Error{
				Kind:         KindTimedOut,
				ExpectedHash: "aa",
				Timeout:      time.Second,
			},
			expected: "timed_out: transaction aa not found after 1s",
		},
		{
			err:      configurationError(errMissingURL),
			expected: "configuration: missing endpoint url",
		},
	}
	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			require.Equal(t, test.expected, test.err.Error())
		})
	}
}

func TestErrorTruncatesBody(t *testing.T) {
	err := &Error{
		Kind: KindInvalidResponse,
		Body: make([]byte, 10*maxBodyInError),
	}
	require.Less(t, len(err.Error()), 5*maxBodyInError)
}

func TestLedgerError(t *testing.T) {
	require := require.New(t)

	tracker := ledger.NewTracker(constants.TestingID)
	require.NoError(tracker.Observe(ledger.State{ChainID: constants.TestingID, Version: 5, TimestampUsecs: 5}))

	err := ledgerError(MethodGetEvents, tracker.Observe(ledger.State{ChainID: constants.TestingID, Version: 4, TimestampUsecs: 5}))
	require.Equal(KindStaleResponse, err.Kind)
	require.Equal(uint64(5), err.Tracked.Version)
	require.Equal(uint64(4), err.Observed.Version)
	require.ErrorIs(err, ledger.ErrStaleResponse)

	err = ledgerError(MethodGetEvents, tracker.Observe(ledger.State{ChainID: constants.MainnetID, Version: 9, TimestampUsecs: 9}))
	require.Equal(KindChainMismatch, err.Kind)
	require.Equal(constants.MainnetID, err.Observed.ChainID)
	require.ErrorIs(err, ledger.ErrChainMismatch)
}
