// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"errors"
	"math/big"
)

var errUint128Range = errors.New("value out of u128 range")

// Uint128 is an unsigned 128 bit integer split into two 64 bit halves.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

func NewUint128(v uint64) Uint128 { return Uint128{Lo: v} }

// Uint128FromBig converts [v] into a Uint128.
func Uint128FromBig(v *big.Int) (Uint128, error) {
	if v.Sign() < 0 || v.BitLen() > 128 {
		return Uint128{}, errUint128Range
	}
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(v, 64)
	return Uint128{Lo: lo.Uint64(), Hi: hi.Uint64()}, nil
}

func (u Uint128) Big() *big.Int {
	v := new(big.Int).SetUint64(u.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string { return u.Big().String() }
