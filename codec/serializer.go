// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/diem/client-sdk-go/utils/wrappers"
)

// Serializer appends canonical encodings to Bytes. The first failure is
// recorded in Err and every following call is a no-op.
type Serializer struct {
	wrappers.Errs

	Bytes []byte

	depth int
}

func (s *Serializer) PackU8(v uint8) {
	if s.Errored() {
		return
	}
	s.Bytes = append(s.Bytes, v)
}

func (s *Serializer) PackU16(v uint16) {
	if s.Errored() {
		return
	}
	s.Bytes = binary.LittleEndian.AppendUint16(s.Bytes, v)
}

func (s *Serializer) PackU32(v uint32) {
	if s.Errored() {
		return
	}
	s.Bytes = binary.LittleEndian.AppendUint32(s.Bytes, v)
}

func (s *Serializer) PackU64(v uint64) {
	if s.Errored() {
		return
	}
	s.Bytes = binary.LittleEndian.AppendUint64(s.Bytes, v)
}

func (s *Serializer) PackU128(v Uint128) {
	s.PackU64(v.Lo)
	s.PackU64(v.Hi)
}

func (s *Serializer) PackBool(v bool) {
	if v {
		s.PackU8(1)
	} else {
		s.PackU8(0)
	}
}

// PackULEB128 writes [v] as an unsigned little-endian base-128 integer.
func (s *Serializer) PackULEB128(v uint32) {
	if s.Errored() {
		return
	}
	for v >= 0x80 {
		s.Bytes = append(s.Bytes, byte(v&0x7f)|0x80)
		v >>= 7
	}
	s.Bytes = append(s.Bytes, byte(v))
}

// PackLen writes the length prefix of a sequence.
func (s *Serializer) PackLen(length int) {
	if length < 0 || length > MaxSequenceLength {
		s.Add(fmt.Errorf("%w: %d", ErrLengthOverflow, length))
		return
	}
	s.PackULEB128(uint32(length))
}

// PackVariant writes the index of a tagged union variant.
func (s *Serializer) PackVariant(index uint32) {
	s.PackULEB128(index)
}

// PackOption writes the presence byte of an optional value. The caller
// writes the value itself when [present] is true.
func (s *Serializer) PackOption(present bool) {
	s.PackBool(present)
}

// PackFixedBytes writes [b] without a length prefix.
func (s *Serializer) PackFixedBytes(b []byte) {
	if s.Errored() {
		return
	}
	s.Bytes = append(s.Bytes, b...)
}

// PackBytes writes [b] with a length prefix.
func (s *Serializer) PackBytes(b []byte) {
	s.PackLen(len(b))
	s.PackFixedBytes(b)
}

// PackStr writes [str] with a length prefix. [str] must be valid UTF-8.
func (s *Serializer) PackStr(str string) {
	if !utf8.ValidString(str) {
		s.Add(fmt.Errorf("%w: %q", ErrInvalidUTF8, str))
		return
	}
	s.PackLen(len(str))
	if s.Errored() {
		return
	}
	s.Bytes = append(s.Bytes, str...)
}

// Pack writes a nested composite value.
func (s *Serializer) Pack(v Marshaler) {
	if s.Errored() {
		return
	}
	if s.depth >= MaxContainerDepth {
		s.Add(fmt.Errorf("%w: %d", ErrMaxDepthExceeded, MaxContainerDepth))
		return
	}
	s.depth++
	v.MarshalBCS(s)
	s.depth--
}
