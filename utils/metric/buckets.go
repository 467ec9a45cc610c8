// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

import "time"

// Useful latency buckets, in nanoseconds

var RequestDurationBuckets = []float64{
	float64(10 * time.Millisecond),  // same datacenter
	float64(100 * time.Millisecond), // instant
	float64(250 * time.Millisecond), // good
	float64(500 * time.Millisecond), // not great
	float64(time.Second),            // worrisome
	float64(5 * time.Second),        // bad
	// anything larger than 5 seconds will be bucketed together
}
