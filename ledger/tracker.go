// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger tracks the freshest ledger state observed from a pool of
// full nodes.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diem/client-sdk-go/utils/constants"
)

var (
	ErrChainMismatch = errors.New("chain id mismatch")
	ErrStaleResponse = errors.New("stale response")
)

// State is the ledger position a response was served at.
type State struct {
	ChainID        constants.ChainID `json:"chainID"`
	Version        uint64            `json:"version"`
	TimestampUsecs uint64            `json:"timestampUsecs"`
}

// Time returns the ledger timestamp.
func (s State) Time() time.Time {
	return time.UnixMicro(int64(s.TimestampUsecs))
}

func (s State) String() string {
	return fmt.Sprintf("%s@%d(%dus)", s.ChainID, s.Version, s.TimestampUsecs)
}

// ChainMismatchError reports a response from a different network.
type ChainMismatchError struct {
	Expected constants.ChainID
	Actual   constants.ChainID
}

func (e *ChainMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s but got %s", ErrChainMismatch, e.Expected, e.Actual)
}

func (*ChainMismatchError) Unwrap() error { return ErrChainMismatch }

// StaleResponseError reports a response served behind the watermark.
type StaleResponseError struct {
	Tracked  State
	Observed State
}

func (e *StaleResponseError) Error() string {
	return fmt.Sprintf("%s: observed %s behind %s", ErrStaleResponse, e.Observed, e.Tracked)
}

func (*StaleResponseError) Unwrap() error { return ErrStaleResponse }

// Tracker holds the highest ledger version and timestamp observed on one
// chain. It is safe for concurrent use.
type Tracker struct {
	lock  sync.Mutex
	state State
}

// NewTracker returns a tracker for [chainID] with a zero watermark.
func NewTracker(chainID constants.ChainID) *Tracker {
	return &Tracker{
		state: State{ChainID: chainID},
	}
}

// Observe merges [observed] into the watermark. It fails with a
// *ChainMismatchError if [observed] is on a different chain and with a
// *StaleResponseError if its version or timestamp is behind the watermark.
// The watermark only changes on success.
func (t *Tracker) Observe(observed State) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch {
	case observed.ChainID != t.state.ChainID:
		return &ChainMismatchError{
			Expected: t.state.ChainID,
			Actual:   observed.ChainID,
		}
	case observed.Version < t.state.Version || observed.TimestampUsecs < t.state.TimestampUsecs:
		return &StaleResponseError{
			Tracked:  t.state,
			Observed: observed,
		}
	default:
		t.state = observed
		return nil
	}
}

// State returns the current watermark.
func (t *Tracker) State() State {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state
}

// ChainID returns the chain this tracker accepts responses from.
func (t *Tracker) ChainID() constants.ChainID {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.state.ChainID
}
