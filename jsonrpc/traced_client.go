// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/ledger"
	"github.com/diem/client-sdk-go/trace"
	"github.com/diem/client-sdk-go/txs"
)

var _ Client = (*tracedClient)(nil)

type tracedClient struct {
	c                           Client
	getMetadataTag              string
	getMetadataByVersionTag     string
	getAccountTag               string
	getAccountTransactionTag    string
	getAccountTransactionsTag   string
	getTransactionsTag          string
	getEventsTag                string
	getCurrenciesTag            string
	submitTag                   string
	waitForSignedTransactionTag string
	waitForTransactionTag       string
	submitAndWaitTag            string
	tracer                      trace.Tracer
}

// Trace returns [c] with every call recorded as a span named
// <name>.<method> by [tracer].
func Trace(c Client, name string, tracer trace.Tracer) Client {
	return &tracedClient{
		c:                           c,
		getMetadataTag:              fmt.Sprintf("%s.getMetadata", name),
		getMetadataByVersionTag:     fmt.Sprintf("%s.getMetadataByVersion", name),
		getAccountTag:               fmt.Sprintf("%s.getAccount", name),
		getAccountTransactionTag:    fmt.Sprintf("%s.getAccountTransaction", name),
		getAccountTransactionsTag:   fmt.Sprintf("%s.getAccountTransactions", name),
		getTransactionsTag:          fmt.Sprintf("%s.getTransactions", name),
		getEventsTag:                fmt.Sprintf("%s.getEvents", name),
		getCurrenciesTag:            fmt.Sprintf("%s.getCurrencies", name),
		submitTag:                   fmt.Sprintf("%s.submit", name),
		waitForSignedTransactionTag: fmt.Sprintf("%s.waitForSignedTransaction", name),
		waitForTransactionTag:       fmt.Sprintf("%s.waitForTransaction", name),
		submitAndWaitTag:            fmt.Sprintf("%s.submitAndWait", name),
		tracer:                      tracer,
	}
}

func (c *tracedClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	ctx, span := c.tracer.Start(ctx, c.getMetadataTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetMetadata),
	))
	defer span.End()

	res, err := c.c.GetMetadata(ctx)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) GetMetadataByVersion(ctx context.Context, version uint64) (*Metadata, error) {
	ctx, span := c.tracer.Start(ctx, c.getMetadataByVersionTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetMetadata),
		attribute.Int64("version", int64(version)),
	))
	defer span.End()

	res, err := c.c.GetMetadataByVersion(ctx, version)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) GetAccount(ctx context.Context, address ids.AccountAddress) (*Account, error) {
	ctx, span := c.tracer.Start(ctx, c.getAccountTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetAccount),
		attribute.Stringer("address", address),
	))
	defer span.End()

	res, err := c.c.GetAccount(ctx, address)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) GetAccountTransaction(
	ctx context.Context,
	address ids.AccountAddress,
	sequence uint64,
	includeEvents bool,
) (*Transaction, error) {
	ctx, span := c.tracer.Start(ctx, c.getAccountTransactionTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetAccountTransaction),
		attribute.Stringer("address", address),
		attribute.Int64("sequence", int64(sequence)),
	))
	defer span.End()

	res, err := c.c.GetAccountTransaction(ctx, address, sequence, includeEvents)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) GetAccountTransactions(
	ctx context.Context,
	address ids.AccountAddress,
	start uint64,
	limit uint64,
	includeEvents bool,
) ([]Transaction, error) {
	ctx, span := c.tracer.Start(ctx, c.getAccountTransactionsTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetAccountTransactions),
		attribute.Stringer("address", address),
		attribute.Int64("start", int64(start)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	res, err := c.c.GetAccountTransactions(ctx, address, start, limit, includeEvents)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) GetTransactions(ctx context.Context, startVersion, limit uint64, includeEvents bool) ([]Transaction, error) {
	ctx, span := c.tracer.Start(ctx, c.getTransactionsTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetTransactions),
		attribute.Int64("startVersion", int64(startVersion)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	res, err := c.c.GetTransactions(ctx, startVersion, limit, includeEvents)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) GetEvents(ctx context.Context, key string, start, limit uint64) ([]Event, error) {
	ctx, span := c.tracer.Start(ctx, c.getEventsTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetEvents),
		attribute.String("key", key),
		attribute.Int64("start", int64(start)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	res, err := c.c.GetEvents(ctx, key, start, limit)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) GetCurrencies(ctx context.Context) ([]CurrencyInfo, error) {
	ctx, span := c.tracer.Start(ctx, c.getCurrenciesTag, oteltrace.WithAttributes(
		attribute.String("method", MethodGetCurrencies),
	))
	defer span.End()

	res, err := c.c.GetCurrencies(ctx)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) Submit(ctx context.Context, tx *txs.SignedTransaction) error {
	ctx, span := c.tracer.Start(ctx, c.submitTag, oteltrace.WithAttributes(
		attribute.String("method", MethodSubmit),
		attribute.Stringer("sender", tx.RawTxn.Sender),
		attribute.Int64("sequence", int64(tx.RawTxn.SequenceNumber)),
	))
	defer span.End()

	err := c.c.Submit(ctx, tx)
	c.finish(span, err)
	return err
}

func (c *tracedClient) WaitForSignedTransaction(ctx context.Context, tx *txs.SignedTransaction, timeout time.Duration) (*Transaction, error) {
	ctx, span := c.tracer.Start(ctx, c.waitForSignedTransactionTag, oteltrace.WithAttributes(
		attribute.Stringer("sender", tx.RawTxn.Sender),
		attribute.Int64("sequence", int64(tx.RawTxn.SequenceNumber)),
		attribute.Stringer("timeout", timeout),
	))
	defer span.End()

	res, err := c.c.WaitForSignedTransaction(ctx, tx, timeout)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) WaitForTransaction(
	ctx context.Context,
	address ids.AccountAddress,
	sequence uint64,
	hash string,
	expirationSecs uint64,
	timeout time.Duration,
) (*Transaction, error) {
	ctx, span := c.tracer.Start(ctx, c.waitForTransactionTag, oteltrace.WithAttributes(
		attribute.Stringer("sender", address),
		attribute.Int64("sequence", int64(sequence)),
		attribute.String("hash", hash),
		attribute.Stringer("timeout", timeout),
	))
	defer span.End()

	res, err := c.c.WaitForTransaction(ctx, address, sequence, hash, expirationSecs, timeout)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) SubmitAndWait(ctx context.Context, tx *txs.SignedTransaction, timeout time.Duration) (*Transaction, error) {
	ctx, span := c.tracer.Start(ctx, c.submitAndWaitTag, oteltrace.WithAttributes(
		attribute.Stringer("sender", tx.RawTxn.Sender),
		attribute.Int64("sequence", int64(tx.RawTxn.SequenceNumber)),
		attribute.Stringer("timeout", timeout),
	))
	defer span.End()

	res, err := c.c.SubmitAndWait(ctx, tx, timeout)
	c.finish(span, err)
	return res, err
}

func (c *tracedClient) LastLedgerState() ledger.State {
	return c.c.LastLedgerState()
}

// finish records the ledger version the call ended at and, on failure, the
// kind of [err].
func (c *tracedClient) finish(span oteltrace.Span, err error) {
	span.SetAttributes(attribute.Int64("ledgerVersion", int64(c.c.LastLedgerState().Version)))
	if err == nil {
		return
	}
	span.SetAttributes(attribute.Stringer("errorKind", KindOf(err)))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
