// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 100 * time.Millisecond
)

var _ backoff.BackOff = (*linearBackOff)(nil)

// Policy bounds how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int
	// BaseDelay is multiplied by the attempt number to get the delay before
	// the next attempt.
	BaseDelay time.Duration
	// Retryable reports whether a failed attempt may be retried. A nil
	// Retryable retries nothing.
	Retryable func(error) bool
	// OnRetry, if set, is called before sleeping [delay] ahead of retrying
	// the failed [attempt].
	OnRetry func(err error, attempt int, delay time.Duration)
}

// DefaultPolicy returns a policy retrying the errors [retryable] accepts with
// the default bounds.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Retryable:   retryable,
	}
}

// Do calls [op] until it succeeds, fails with an error the policy does not
// retry, runs out of attempts, or [ctx] is done. The error of the last
// attempt is returned unmodified.
func Do(ctx context.Context, policy Policy, op func() error) error {
	retries := policy.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{base: policy.BaseDelay}, uint64(retries)),
		ctx,
	)

	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			err := op()
			if err != nil && (policy.Retryable == nil || !policy.Retryable(err)) {
				return backoff.Permanent(err)
			}
			return err
		},
		b,
		func(err error, delay time.Duration) {
			if policy.OnRetry != nil {
				policy.OnRetry(err, attempt, delay)
			}
		},
	)
}

// linearBackOff waits base * n before the n-th retry.
type linearBackOff struct {
	base    time.Duration
	attempt int64
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.base * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() { b.attempt = 0 }
