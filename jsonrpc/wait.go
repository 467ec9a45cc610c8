// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/txs"
)

const usecsPerSec = 1_000_000

func (c *client) WaitForSignedTransaction(ctx context.Context, tx *txs.SignedTransaction, timeout time.Duration) (*Transaction, error) {
	hash, err := tx.Hash()
	if err != nil {
		return nil, &Error{Kind: KindConfiguration, Method: MethodGetAccountTransaction, Err: err}
	}
	return c.WaitForTransaction(
		ctx,
		tx.RawTxn.Sender,
		tx.RawTxn.SequenceNumber,
		hash,
		tx.RawTxn.ExpirationTimestampSecs,
		timeout,
	)
}

func (c *client) WaitForTransaction(
	ctx context.Context,
	address ids.AccountAddress,
	sequence uint64,
	hash string,
	expirationSecs uint64,
	timeout time.Duration,
) (*Transaction, error) {
	if timeout <= 0 {
		timeout = c.waitTimeout
	}

	tx, err := c.wait(ctx, address, sequence, hash, expirationSecs, timeout)
	c.metrics.observeWait(err)

	fields := []zap.Field{
		zap.Stringer("sender", address),
		zap.Uint64("sequence", sequence),
		zap.String("hash", hash),
	}
	if err != nil {
		c.log.Warn("transaction wait failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	c.log.Info("transaction confirmed", append(fields, zap.Uint64("version", tx.Version))...)
	return tx, nil
}

// wait polls for the transaction. An included transaction is checked
// against [hash] before its vm status so that the status of a different
// transaction is never reported.
func (c *client) wait(
	ctx context.Context,
	address ids.AccountAddress,
	sequence uint64,
	hash string,
	expirationSecs uint64,
	timeout time.Duration,
) (*Transaction, error) {
	start := c.clock.Time()
	expiration := time.Unix(int64(expirationSecs), 0)

	// Bounds polls that never get a reply.
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		tx, err := c.GetAccountTransaction(waitCtx, address, sequence, true)
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, c.waitDone(waitCtx, hash, start, timeout)
			}
			return nil, err
		}

		if tx != nil {
			switch {
			case !tx.HashMatches(hash):
				return nil, &Error{
					Kind:         KindHashMismatch,
					Method:       MethodGetAccountTransaction,
					Transaction:  tx,
					ExpectedHash: hash,
					ActualHash:   tx.Hash,
				}
			case !tx.VMStatus.Executed():
				return nil, &Error{
					Kind:         KindExecutionFailed,
					Method:       MethodGetAccountTransaction,
					Transaction:  tx,
					ExpectedHash: hash,
					ActualHash:   tx.Hash,
				}
			default:
				return tx, nil
			}
		}

		if c.clock.Since(start) >= timeout {
			return nil, &Error{
				Kind:         KindTimedOut,
				Method:       MethodGetAccountTransaction,
				ExpectedHash: hash,
				Timeout:      timeout,
			}
		}
		// expirationSecs * usecsPerSec <= timestamp, without overflowing.
		if tracked := c.tracker.State(); expirationSecs <= tracked.TimestampUsecs/usecsPerSec {
			return nil, &Error{
				Kind:         KindExpired,
				Method:       MethodGetAccountTransaction,
				ExpectedHash: hash,
				Expiration:   expiration,
				Observed:     tracked,
			}
		}

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-waitCtx.Done():
			timer.Stop()
			return nil, c.waitDone(waitCtx, hash, start, timeout)
		case <-timer.C:
		}
	}
}

// waitDone reports a wait whose context finished before the transaction
// was found. Reaching the deadline reports the full [timeout].
func (c *client) waitDone(ctx context.Context, hash string, start time.Time, timeout time.Duration) *Error {
	err := ctx.Err()
	elapsed := c.clock.Since(start)
	if errors.Is(err, context.DeadlineExceeded) {
		elapsed = timeout
	}
	return &Error{
		Kind:         KindTimedOut,
		Method:       MethodGetAccountTransaction,
		ExpectedHash: hash,
		Timeout:      elapsed,
		Err:          err,
	}
}
