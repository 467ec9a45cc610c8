// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/ids"
)

// Transaction argument variant indices
const (
	ArgumentU8Index uint32 = iota
	ArgumentU64Index
	ArgumentU128Index
	ArgumentAddressIndex
	ArgumentU8VectorIndex
	ArgumentBoolIndex
)

var (
	errNilArgument = errors.New("nil transaction argument")

	_ TransactionArgument = ArgumentU8(0)
	_ TransactionArgument = ArgumentU64(0)
	_ TransactionArgument = ArgumentU128{}
	_ TransactionArgument = ArgumentAddress{}
	_ TransactionArgument = ArgumentU8Vector(nil)
	_ TransactionArgument = ArgumentBool(false)
)

// TransactionArgument is a typed argument of a Script payload.
type TransactionArgument interface {
	codec.Marshaler

	Index() uint32
}

type (
	ArgumentU8       uint8
	ArgumentU64      uint64
	ArgumentU128     codec.Uint128
	ArgumentAddress  ids.AccountAddress
	ArgumentU8Vector []byte
	ArgumentBool     bool
)

func (ArgumentU8) Index() uint32       { return ArgumentU8Index }
func (ArgumentU64) Index() uint32      { return ArgumentU64Index }
func (ArgumentU128) Index() uint32     { return ArgumentU128Index }
func (ArgumentAddress) Index() uint32  { return ArgumentAddressIndex }
func (ArgumentU8Vector) Index() uint32 { return ArgumentU8VectorIndex }
func (ArgumentBool) Index() uint32     { return ArgumentBoolIndex }

func (a ArgumentU8) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackU8(uint8(a))
}

func (a ArgumentU64) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackU64(uint64(a))
}

func (a ArgumentU128) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackU128(codec.Uint128(a))
}

func (a ArgumentAddress) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackFixedBytes(a[:])
}

func (a ArgumentU8Vector) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackBytes(a)
}

func (a ArgumentBool) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackBool(bool(a))
}

type argumentBox struct {
	arg TransactionArgument
}

func (b *argumentBox) UnmarshalBCS(d *codec.Deserializer) {
	switch index := d.UnpackVariant(); {
	case d.Errored():
	case index == ArgumentU8Index:
		b.arg = ArgumentU8(d.UnpackU8())
	case index == ArgumentU64Index:
		b.arg = ArgumentU64(d.UnpackU64())
	case index == ArgumentU128Index:
		b.arg = ArgumentU128(d.UnpackU128())
	case index == ArgumentAddressIndex:
		addr := ids.AccountAddress{}
		d.Unpack(&addr)
		b.arg = ArgumentAddress(addr)
	case index == ArgumentU8VectorIndex:
		b.arg = ArgumentU8Vector(d.UnpackBytes())
	case index == ArgumentBoolIndex:
		b.arg = ArgumentBool(d.UnpackBool())
	default:
		d.Fail(fmt.Errorf("%w: transaction argument %d", codec.ErrUnknownVariant, index))
	}
}

func packArguments(s *codec.Serializer, args []TransactionArgument) {
	s.PackLen(len(args))
	for _, arg := range args {
		if arg == nil {
			s.Add(errNilArgument)
			return
		}
		s.Pack(arg)
	}
}

func unpackArguments(d *codec.Deserializer) []TransactionArgument {
	length := d.UnpackLen()
	if d.Errored() || length == 0 {
		return nil
	}
	args := make([]TransactionArgument, 0, length)
	for i := 0; i < length && !d.Errored(); i++ {
		box := argumentBox{}
		d.Unpack(&box)
		args = append(args, box.arg)
	}
	return args
}
