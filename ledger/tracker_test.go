// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/diem/client-sdk-go/utils/constants"
)

func state(version, timestamp uint64) State {
	return State{
		ChainID:        constants.TestingID,
		Version:        version,
		TimestampUsecs: timestamp,
	}
}

func TestTrackerStartsAtZero(t *testing.T) {
	require := require.New(t)

	tracker := NewTracker(constants.TestingID)
	require.Equal(state(0, 0), tracker.State())
	require.Equal(constants.TestingID, tracker.ChainID())
}

func TestTrackerObserve(t *testing.T) {
	tests := []struct {
		name        string
		observed    State
		expectedErr error
		expected    State
	}{
		{
			name:     "newer",
			observed: state(101, 101),
			expected: state(101, 101),
		},
		{
			name:     "equal",
			observed: state(100, 100),
			expected: state(100, 100),
		},
		{
			name:     "newer version only",
			observed: state(101, 100),
			expected: state(101, 100),
		},
		{
			name:     "newer timestamp only",
			observed: state(100, 101),
			expected: state(100, 101),
		},
		{
			name:        "older version",
			observed:    state(99, 100),
			expectedErr: ErrStaleResponse,
			expected:    state(100, 100),
		},
		{
			name:        "older timestamp",
			observed:    state(100, 99),
			expectedErr: ErrStaleResponse,
			expected:    state(100, 100),
		},
		{
			name:        "older timestamp with newer version",
			observed:    state(200, 99),
			expectedErr: ErrStaleResponse,
			expected:    state(100, 100),
		},
		{
			name: "foreign chain",
			observed: State{
				ChainID:        constants.MainnetID,
				Version:        200,
				TimestampUsecs: 200,
			},
			expectedErr: ErrChainMismatch,
			expected:    state(100, 100),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			tracker := NewTracker(constants.TestingID)
			require.NoError(tracker.Observe(state(100, 100)))

			err := tracker.Observe(test.observed)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expected, tracker.State())
		})
	}
}

func TestStaleResponseErrorContext(t *testing.T) {
	require := require.New(t)

	tracker := NewTracker(constants.TestingID)
	require.NoError(tracker.Observe(state(100, 100)))

	err := tracker.Observe(state(99, 100))
	var staleErr *StaleResponseError
	require.True(errors.As(err, &staleErr))
	require.Equal(state(100, 100), staleErr.Tracked)
	require.Equal(state(99, 100), staleErr.Observed)

	err = tracker.Observe(State{ChainID: constants.MainnetID})
	var chainErr *ChainMismatchError
	require.True(errors.As(err, &chainErr))
	require.Equal(constants.TestingID, chainErr.Expected)
	require.Equal(constants.MainnetID, chainErr.Actual)
}

func TestTrackerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("watermark never decreases", prop.ForAll(
		func(versions []uint64, timestamps []uint64) bool {
			tracker := NewTracker(constants.TestingID)
			for i := range versions {
				before := tracker.State()
				_ = tracker.Observe(state(versions[i], timestamps[i%len(timestamps)]))
				after := tracker.State()
				if after.Version < before.Version || after.TimestampUsecs < before.TimestampUsecs {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt64Range(0, 50)),
		gen.SliceOfN(8, gen.UInt64Range(0, 50)),
	))

	properties.Property("foreign chain is always rejected", prop.ForAll(
		func(chainID uint8, version uint64, timestamp uint64) bool {
			tracker := NewTracker(constants.TestingID)
			err := tracker.Observe(State{
				ChainID:        constants.ChainID(chainID),
				Version:        version,
				TimestampUsecs: timestamp,
			})
			return errors.Is(err, ErrChainMismatch) && tracker.State() == state(0, 0)
		},
		gen.UInt8().SuchThat(func(v uint8) bool { return constants.ChainID(v) != constants.TestingID }),
		gen.UInt64(),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestTrackerConcurrentObserve(t *testing.T) {
	require := require.New(t)

	const numObservers = 32
	tracker := NewTracker(constants.TestingID)

	eg := errgroup.Group{}
	for i := uint64(1); i <= numObservers; i++ {
		i := i
		eg.Go(func() error {
			for j := uint64(0); j <= i; j++ {
				before := tracker.State()
				err := tracker.Observe(state(j, j))
				if err != nil && !errors.Is(err, ErrStaleResponse) {
					return err
				}
				if after := tracker.State(); after.Version < before.Version {
					return errors.New("watermark decreased")
				}
			}
			return nil
		})
	}
	require.NoError(eg.Wait())
	require.Equal(state(numObservers, numObservers), tracker.State())
}
