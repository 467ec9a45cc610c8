// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package jsonrpc is a client of the full node JSON-RPC API.
//
// Every response carries the ledger state it was served at. The client
// tracks the freshest state it has seen and rejects responses from nodes
// that are behind it; reads rejected this way are retried.
package jsonrpc

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/ledger"
	"github.com/diem/client-sdk-go/txs"
	"github.com/diem/client-sdk-go/utils/constants"
	"github.com/diem/client-sdk-go/utils/logging"
	"github.com/diem/client-sdk-go/utils/retry"
	"github.com/diem/client-sdk-go/utils/rpc"
	"github.com/diem/client-sdk-go/utils/timer/mockable"
)

const (
	MethodGetMetadata            = "get_metadata"
	MethodGetAccount             = "get_account"
	MethodGetAccountTransaction  = "get_account_transaction"
	MethodGetAccountTransactions = "get_account_transactions"
	MethodGetTransactions        = "get_transactions"
	MethodGetEvents              = "get_events"
	MethodGetCurrencies          = "get_currencies"
	MethodSubmit                 = "submit"
)

var _ Client = (*client)(nil)

// Client of a full node. Every error returned is an *Error.
type Client interface {
	// GetMetadata returns the metadata of the latest ledger version.
	GetMetadata(ctx context.Context) (*Metadata, error)
	// GetMetadataByVersion returns the metadata of the ledger at [version].
	GetMetadataByVersion(ctx context.Context, version uint64) (*Metadata, error)
	// GetAccount returns nil if the account does not exist.
	GetAccount(ctx context.Context, address ids.AccountAddress) (*Account, error)
	// GetAccountTransaction returns nil if the transaction sent by
	// [address] with [sequence] is not included yet.
	GetAccountTransaction(ctx context.Context, address ids.AccountAddress, sequence uint64, includeEvents bool) (*Transaction, error)
	GetAccountTransactions(ctx context.Context, address ids.AccountAddress, start, limit uint64, includeEvents bool) ([]Transaction, error)
	GetTransactions(ctx context.Context, startVersion, limit uint64, includeEvents bool) ([]Transaction, error)
	GetEvents(ctx context.Context, key string, start, limit uint64) ([]Event, error)
	GetCurrencies(ctx context.Context) ([]CurrencyInfo, error)

	// Submit sends [tx] once. A stale acknowledgement is not an error since
	// the transaction may already be queued.
	Submit(ctx context.Context, tx *txs.SignedTransaction) error
	// WaitForSignedTransaction polls until [tx] is included, expires or
	// [timeout] elapses. A non positive [timeout] uses the configured one.
	WaitForSignedTransaction(ctx context.Context, tx *txs.SignedTransaction, timeout time.Duration) (*Transaction, error)
	// WaitForTransaction is WaitForSignedTransaction for a transaction
	// identified by its sender, sequence number, hash and expiration.
	WaitForTransaction(
		ctx context.Context,
		address ids.AccountAddress,
		sequence uint64,
		hash string,
		expirationSecs uint64,
		timeout time.Duration,
	) (*Transaction, error)
	// SubmitAndWait submits [tx] and waits for it.
	SubmitAndWait(ctx context.Context, tx *txs.SignedTransaction, timeout time.Duration) (*Transaction, error)

	// LastLedgerState returns the freshest ledger state observed.
	LastLedgerState() ledger.State
}

type client struct {
	url       string
	transport rpc.Transport
	tracker   *ledger.Tracker
	policy    retry.Policy

	pollInterval time.Duration
	waitTimeout  time.Duration

	log     logging.Logger
	metrics *metrics
	clock   *mockable.Clock
}

// NewClient returns a client of the full node at [config.URL].
func NewClient(config Config) (Client, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}

	m, err := newMetrics(config.Namespace, config.Registerer)
	if err != nil {
		return nil, configurationError(err)
	}

	c := &client{
		url:          config.URL,
		transport:    config.Transport,
		tracker:      ledger.NewTracker(config.ChainID),
		pollInterval: config.WaitPollInterval,
		waitTimeout:  config.WaitTimeout,
		log:          config.Log,
		metrics:      m,
		clock:        config.Clock,
	}
	if c.transport == nil {
		var options []rpc.Option
		if config.MaxRequestsPerSecond > 0 {
			options = append(options, rpc.WithRateLimit(config.MaxRequestsPerSecond))
		}
		c.transport = rpc.NewHTTPTransport(config.HTTPClient, options...)
	}
	if c.log == nil {
		c.log = logging.NoLog{}
	}
	if c.clock == nil {
		c.clock = &mockable.Clock{}
	}
	c.policy = retry.Policy{
		MaxAttempts: config.RetryMaxAttempts,
		BaseDelay:   config.RetryBaseDelay,
		Retryable:   IsStale,
		OnRetry: func(err error, attempt int, delay time.Duration) {
			c.metrics.retries.Inc()
			c.log.Debug("retrying stale read",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		},
	}
	return c, nil
}

func (c *client) GetMetadata(ctx context.Context) (*Metadata, error) {
	res := &Metadata{}
	if _, err := c.read(ctx, MethodGetMetadata, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *client) GetMetadataByVersion(ctx context.Context, version uint64) (*Metadata, error) {
	res := &Metadata{}
	if _, err := c.read(ctx, MethodGetMetadata, res, version); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *client) GetAccount(ctx context.Context, address ids.AccountAddress) (*Account, error) {
	res := &Account{}
	found, err := c.read(ctx, MethodGetAccount, res, address.Hex())
	if err != nil || !found {
		return nil, err
	}
	return res, nil
}

func (c *client) GetAccountTransaction(
	ctx context.Context,
	address ids.AccountAddress,
	sequence uint64,
	includeEvents bool,
) (*Transaction, error) {
	res := &Transaction{}
	found, err := c.read(ctx, MethodGetAccountTransaction, res, address.Hex(), sequence, includeEvents)
	if err != nil || !found {
		return nil, err
	}
	return res, nil
}

func (c *client) GetAccountTransactions(
	ctx context.Context,
	address ids.AccountAddress,
	start uint64,
	limit uint64,
	includeEvents bool,
) ([]Transaction, error) {
	var res []Transaction
	_, err := c.read(ctx, MethodGetAccountTransactions, &res, address.Hex(), start, limit, includeEvents)
	return res, err
}

func (c *client) GetTransactions(ctx context.Context, startVersion, limit uint64, includeEvents bool) ([]Transaction, error) {
	var res []Transaction
	_, err := c.read(ctx, MethodGetTransactions, &res, startVersion, limit, includeEvents)
	return res, err
}

func (c *client) GetEvents(ctx context.Context, key string, start, limit uint64) ([]Event, error) {
	var res []Event
	_, err := c.read(ctx, MethodGetEvents, &res, key, start, limit)
	return res, err
}

func (c *client) GetCurrencies(ctx context.Context) ([]CurrencyInfo, error) {
	var res []CurrencyInfo
	_, err := c.read(ctx, MethodGetCurrencies, &res)
	return res, err
}

func (c *client) Submit(ctx context.Context, tx *txs.SignedTransaction) error {
	txHex, err := tx.Hex()
	if err != nil {
		return &Error{Kind: KindConfiguration, Method: MethodSubmit, Err: err}
	}

	_, err = c.call(ctx, MethodSubmit, nil, txHex)
	if IsStale(err) {
		c.log.Warn("ignoring stale submit acknowledgement",
			zap.Stringer("sender", tx.RawTxn.Sender),
			zap.Uint64("sequence", tx.RawTxn.SequenceNumber),
			zap.Error(err),
		)
		err = nil
	}
	if err != nil {
		return err
	}
	c.metrics.submittedTxs.Inc()
	return nil
}

func (c *client) SubmitAndWait(ctx context.Context, tx *txs.SignedTransaction, timeout time.Duration) (*Transaction, error) {
	if err := c.Submit(ctx, tx); err != nil {
		return nil, err
	}
	return c.WaitForSignedTransaction(ctx, tx, timeout)
}

func (c *client) LastLedgerState() ledger.State {
	return c.tracker.State()
}

// read is call retried on stale responses.
func (c *client) read(ctx context.Context, method string, reply interface{}, params ...interface{}) (bool, error) {
	var found bool
	err := retry.Do(ctx, c.policy, func() error {
		var err error
		found, err = c.call(ctx, method, reply, params...)
		return err
	})
	if err != nil && KindOf(err) == KindUnknown {
		// The context was done while waiting to retry.
		err = &Error{Kind: KindRemoteCall, Method: method, Err: err}
	}
	return found, err
}

// call sends one request and decodes its result into [reply]. It returns
// false if the result was null.
func (c *client) call(ctx context.Context, method string, reply interface{}, params ...interface{}) (bool, error) {
	start := time.Now()
	found, err := c.send(ctx, method, reply, params...)
	c.metrics.observeRequest(method, start, err)
	return found, err
}

func (c *client) send(ctx context.Context, method string, reply interface{}, params ...interface{}) (bool, error) {
	body, err := rpc.EncodeRequest(method, params...)
	if err != nil {
		return false, &Error{Kind: KindConfiguration, Method: method, Err: err}
	}

	c.log.Verbo("sending request",
		zap.String("method", method),
		zap.String("endpoint", rpc.Redacted(c.url)),
	)
	status, respBody, err := c.transport.PostJSON(ctx, c.url, body)
	if err != nil {
		return false, &Error{Kind: KindRemoteCall, Method: method, Err: err}
	}
	if status != http.StatusOK {
		return false, &Error{
			Kind:       KindInvalidResponse,
			Method:     method,
			StatusCode: status,
			Body:       respBody,
		}
	}

	resp, err := rpc.DecodeResponse(respBody)
	if err != nil {
		return false, &Error{
			Kind:       KindInvalidResponse,
			Method:     method,
			StatusCode: status,
			Body:       respBody,
			Err:        err,
		}
	}

	// Rejections of malformed requests may be sent without a ledger state.
	if resp.Error == nil || resp.ChainID != 0 {
		observed := ledger.State{
			ChainID:        constants.ChainID(resp.ChainID),
			Version:        resp.LedgerVersion,
			TimestampUsecs: resp.LedgerTimestampUsec,
		}
		if err := c.tracker.Observe(observed); err != nil {
			ledgerErr := ledgerError(method, err)
			if ledgerErr.Kind == KindStaleResponse {
				c.metrics.staleResponses.Inc()
				c.log.Debug("received stale response",
					zap.String("method", method),
					zap.Stringer("tracked", ledgerErr.Tracked),
					zap.Stringer("observed", ledgerErr.Observed),
				)
			}
			return false, ledgerErr
		}
	}

	if resp.Error != nil {
		return false, &Error{
			Kind:     KindJSONRPC,
			Method:   method,
			RPCError: resp.Error,
			Err:      resp.Error,
		}
	}
	if !resp.HasResult() {
		return false, nil
	}
	if reply == nil {
		return true, nil
	}
	if err := resp.UnmarshalResult(reply); err != nil {
		return false, &Error{
			Kind:       KindInvalidResponse,
			Method:     method,
			StatusCode: status,
			Body:       respBody,
			Err:        err,
		}
	}
	return true, nil
}
