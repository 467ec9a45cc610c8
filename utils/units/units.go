// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package units

// Denominations of value. On-chain amounts are expressed in micro-units of a
// currency whose scaling factor is 1,000,000.
const (
	MicroCoin uint64 = 1
	MilliCoin uint64 = 1000 * MicroCoin
	Coin      uint64 = 1000 * MilliCoin
	KiloCoin  uint64 = 1000 * Coin
	MegaCoin  uint64 = 1000 * KiloCoin
)

// Sizes, in bytes
const (
	KiB = 1 << 10
	MiB = 1 << 20
)
