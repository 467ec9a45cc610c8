// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/diem/client-sdk-go/utils/rpc/rpcmock"
	"github.com/diem/client-sdk-go/utils/timer/mockable"
)

func TestSubmitAndWaitConfirmed(t *testing.T) {
	require := require.New(t)

	tx := testSignedTx(t, farExpiration)
	hash, err := tx.Hash()
	require.NoError(err)
	txHex, err := tx.Hex()
	require.NoError(err)

	node := &fakeNode{
		timestamp: 1_000_000,
		poll: func(n int) interface{} {
			if n < 2 {
				return nil
			}
			return &Transaction{
				Version:  42,
				Hash:     hash,
				Bytes:    "00" + txHex,
				VMStatus: VMStatus{Type: VMStatusExecuted},
				GasUsed:  10,
			}
		},
	}
	c := newFakeNodeClient(t, node)

	confirmed, err := c.SubmitAndWait(context.Background(), tx, time.Minute)
	require.NoError(err)
	require.Equal(uint64(42), confirmed.Version)
	require.Equal(hash, confirmed.Hash)
	require.Equal(2, node.Polls())
	require.Equal([]string{txHex}, node.Submitted())

	require.Equal(1.0, testutil.ToFloat64(c.metrics.submittedTxs))
	require.Equal(1.0, testutil.ToFloat64(c.metrics.waitOutcomes.WithLabelValues("confirmed")))
}

func TestWaitHashIsCaseInsensitive(t *testing.T) {
	require := require.New(t)

	tx := testSignedTx(t, farExpiration)
	hash, err := tx.Hash()
	require.NoError(err)

	node := &fakeNode{
		poll: func(int) interface{} {
			return &Transaction{
				Hash:     "0x" + strings.ToUpper(hash),
				VMStatus: VMStatus{Type: VMStatusExecuted},
			}
		},
	}
	c := newFakeNodeClient(t, node)

	_, err = c.WaitForSignedTransaction(context.Background(), tx, time.Minute)
	require.NoError(err)
}

func TestWaitHashMismatch(t *testing.T) {
	for _, status := range []string{VMStatusExecuted, "move_abort", "out_of_gas"} {
		t.Run(status, func(t *testing.T) {
			require := require.New(t)

			tx := testSignedTx(t, farExpiration)
			otherHash := strings.Repeat("ab", 32)
			node := &fakeNode{
				poll: func(int) interface{} {
					return &Transaction{
						Hash:     otherHash,
						VMStatus: VMStatus{Type: status},
					}
				},
			}
			c := newFakeNodeClient(t, node)

			_, err := c.WaitForSignedTransaction(context.Background(), tx, time.Minute)
			require.Equal(KindHashMismatch, KindOf(err))

			expectedHash, hashErr := tx.Hash()
			require.NoError(hashErr)

			var clientErr *Error
			require.ErrorAs(err, &clientErr)
			require.Equal(expectedHash, clientErr.ExpectedHash)
			require.Equal(otherHash, clientErr.ActualHash)
			require.NotNil(clientErr.Transaction)
			require.Equal(1.0, testutil.ToFloat64(c.metrics.waitOutcomes.WithLabelValues(KindHashMismatch.String())))
		})
	}
}

func TestWaitExecutionFailed(t *testing.T) {
	require := require.New(t)

	tx := testSignedTx(t, farExpiration)
	hash, err := tx.Hash()
	require.NoError(err)

	node := &fakeNode{
		poll: func(int) interface{} {
			return &Transaction{
				Hash: hash,
				VMStatus: VMStatus{
					Type:      "move_abort",
					Location:  "00000000000000000000000000000001::DiemAccount",
					AbortCode: 1288,
				},
			}
		},
	}
	c := newFakeNodeClient(t, node)

	_, err = c.WaitForSignedTransaction(context.Background(), tx, time.Minute)
	require.Equal(KindExecutionFailed, KindOf(err))
	require.Contains(err.Error(), "move_abort")

	var clientErr *Error
	require.ErrorAs(err, &clientErr)
	require.Equal(uint64(1288), clientErr.Transaction.VMStatus.AbortCode)
}

func TestWaitExpired(t *testing.T) {
	require := require.New(t)

	const expiration = 100
	tx := testSignedTx(t, expiration)
	node := &fakeNode{
		// The ledger has reached the expiration exactly.
		timestamp: expiration * usecsPerSec,
	}
	c := newFakeNodeClient(t, node)

	_, err := c.WaitForSignedTransaction(context.Background(), tx, time.Minute)
	require.Equal(KindExpired, KindOf(err))
	require.Equal(1, node.Polls())

	var clientErr *Error
	require.ErrorAs(err, &clientErr)
	require.Equal(time.Unix(expiration, 0), clientErr.Expiration)
	require.Equal(uint64(expiration*usecsPerSec), clientErr.Observed.TimestampUsecs)
}

func TestWaitNotExpiredBeforeExpiration(t *testing.T) {
	require := require.New(t)

	const expiration = 100
	tx := testSignedTx(t, expiration)
	node := &fakeNode{
		timestamp: expiration*usecsPerSec - 1,
	}
	c := newFakeNodeClient(t, node)

	_, err := c.WaitForSignedTransaction(context.Background(), tx, 20*time.Millisecond)
	require.Equal(KindTimedOut, KindOf(err))
}

func TestWaitTimedOut(t *testing.T) {
	require := require.New(t)

	tx := testSignedTx(t, farExpiration)
	node := &fakeNode{timestamp: 1}
	c := newFakeNodeClient(t, node)

	timeout := 20 * time.Millisecond
	_, err := c.WaitForSignedTransaction(context.Background(), tx, timeout)
	require.Equal(KindTimedOut, KindOf(err))
	require.GreaterOrEqual(node.Polls(), 1)

	var clientErr *Error
	require.ErrorAs(err, &clientErr)
	require.Equal(timeout, clientErr.Timeout)
	require.Equal(1.0, testutil.ToFloat64(c.metrics.waitOutcomes.WithLabelValues(KindTimedOut.String())))
}

func TestWaitDefaultTimeout(t *testing.T) {
	require := require.New(t)

	tx := testSignedTx(t, farExpiration)
	node := &fakeNode{}

	c := newFakeNodeClient(t, node)
	c.waitTimeout = 10 * time.Millisecond

	_, err := c.WaitForSignedTransaction(context.Background(), tx, 0)
	var clientErr *Error
	require.ErrorAs(err, &clientErr)
	require.Equal(KindTimedOut, clientErr.Kind)
	require.Equal(10*time.Millisecond, clientErr.Timeout)
}

func TestWaitStopsWhenContextDone(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	transport := rpcmock.NewTransport(ctrl)
	config := newTestConfig(transport)
	config.WaitPollInterval = time.Hour
	c := newTestClient(t, config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string, []byte) (int, []byte, error) {
			cancel()
			return http.StatusOK, rpcResponse(t, 1, 1, nil), nil
		},
	)

	_, err := c.WaitForSignedTransaction(ctx, testSignedTx(t, farExpiration), time.Minute)
	require.Equal(KindTimedOut, KindOf(err))
	require.ErrorIs(err, context.Canceled)
}

func TestWaitTimeoutBoundsUnansweredPoll(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	config := newTestConfig(nil)
	config.URL = server.URL
	config.HTTPClient = server.Client()
	c := newTestClient(t, config)

	timeout := 50 * time.Millisecond
	start := time.Now()
	_, err := c.WaitForSignedTransaction(context.Background(), testSignedTx(t, farExpiration), timeout)
	require.Less(time.Since(start), 5*time.Second)

	var clientErr *Error
	require.ErrorAs(err, &clientErr)
	require.Equal(KindTimedOut, clientErr.Kind)
	require.Equal(timeout, clientErr.Timeout)
	require.ErrorIs(err, context.DeadlineExceeded)
}

func TestWaitRetriesStalePolls(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	transport := rpcmock.NewTransport(ctrl)
	c := newTestClient(t, newTestConfig(transport))

	tx := testSignedTx(t, farExpiration)
	hash, err := tx.Hash()
	require.NoError(err)

	gomock.InOrder(
		transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(http.StatusOK, rpcResponse(t, 10, 10, nil), nil),
		transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(http.StatusOK, rpcResponse(t, 5, 5, nil), nil),
		transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(http.StatusOK, rpcResponse(t, 11, 11, &Transaction{
				Version:  11,
				Hash:     hash,
				VMStatus: VMStatus{Type: VMStatusExecuted},
			}), nil),
	)

	confirmed, err := c.WaitForSignedTransaction(context.Background(), tx, time.Minute)
	require.NoError(err)
	require.Equal(uint64(11), confirmed.Version)
	require.Equal(1.0, testutil.ToFloat64(c.metrics.retries))
}

func TestWaitTimeoutFollowsClock(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	clock := &mockable.Clock{}
	clock.Set(time.Unix(1_000, 0))

	transport := rpcmock.NewTransport(ctrl)
	config := newTestConfig(transport)
	config.Clock = clock
	c := newTestClient(t, config)

	transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string, []byte) (int, []byte, error) {
			clock.Advance(10 * time.Second)
			return http.StatusOK, rpcResponse(t, 1, 1, nil), nil
		},
	).Times(3)

	_, err := c.WaitForSignedTransaction(context.Background(), testSignedTx(t, farExpiration), 25*time.Second)
	require.Equal(KindTimedOut, KindOf(err))
}
