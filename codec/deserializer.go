// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/diem/client-sdk-go/utils/wrappers"
)

// Deserializer reads canonical encodings from a byte slice. The first
// failure is recorded in Err; every following call is a no-op that returns
// the zero value.
type Deserializer struct {
	wrappers.Errs

	bytes  []byte
	offset int
	depth  int
}

func NewDeserializer(bytes []byte) *Deserializer {
	return &Deserializer{bytes: bytes}
}

// Offset returns the number of bytes consumed so far.
func (d *Deserializer) Offset() int { return d.offset }

// Remaining returns the number of bytes not yet consumed.
func (d *Deserializer) Remaining() int { return len(d.bytes) - d.offset }

// Fail records [err] as a structural failure at the current offset.
func (d *Deserializer) Fail(err error) {
	d.Add(&DecodeError{Offset: d.offset, Err: err})
}

// Finish returns the recorded error, or ErrRemainingInput if bytes remain
// unconsumed.
func (d *Deserializer) Finish() error {
	if d.Errored() {
		return d.Err
	}
	if d.Remaining() != 0 {
		d.Fail(ErrRemainingInput)
	}
	return d.Err
}

func (d *Deserializer) next(n int) []byte {
	if d.Errored() {
		return nil
	}
	if n < 0 || d.Remaining() < n {
		d.Fail(ErrUnexpectedEOF)
		return nil
	}
	b := d.bytes[d.offset : d.offset+n]
	d.offset += n
	return b
}

func (d *Deserializer) UnpackU8() uint8 {
	b := d.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Deserializer) UnpackU16() uint16 {
	b := d.next(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *Deserializer) UnpackU32() uint32 {
	b := d.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *Deserializer) UnpackU64() uint64 {
	b := d.next(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *Deserializer) UnpackU128() Uint128 {
	lo := d.UnpackU64()
	hi := d.UnpackU64()
	return Uint128{Lo: lo, Hi: hi}
}

func (d *Deserializer) UnpackBool() bool {
	switch b := d.UnpackU8(); {
	case d.Errored():
		return false
	case b == 0:
		return false
	case b == 1:
		return true
	default:
		d.offset--
		d.Fail(ErrInvalidBool)
		return false
	}
}

// UnpackULEB128 reads a canonical ULEB128 encoded u32.
func (d *Deserializer) UnpackULEB128() uint32 {
	var value uint64
	for shift := uint(0); shift < 32; shift += 7 {
		b := d.UnpackU8()
		if d.Errored() {
			return 0
		}
		digit := b & 0x7f
		value |= uint64(digit) << shift
		if digit == b {
			if shift > 0 && digit == 0 {
				d.Fail(ErrNonCanonicalULEB128)
				return 0
			}
			if value > 1<<32-1 {
				d.Fail(ErrULEB128Overflow)
				return 0
			}
			return uint32(value)
		}
	}
	d.Fail(ErrULEB128Overflow)
	return 0
}

// UnpackLen reads the length prefix of a sequence. Lengths that could not
// possibly be satisfied by the remaining input fail immediately so callers
// never allocate for them.
func (d *Deserializer) UnpackLen() int {
	length := d.UnpackULEB128()
	switch {
	case d.Errored():
		return 0
	case length > MaxSequenceLength:
		d.Fail(ErrLengthOverflow)
		return 0
	case int(length) > d.Remaining():
		d.Fail(ErrUnexpectedEOF)
		return 0
	}
	return int(length)
}

// UnpackVariant reads the index of a tagged union variant.
func (d *Deserializer) UnpackVariant() uint32 {
	return d.UnpackULEB128()
}

// UnpackOption reads the presence byte of an optional value.
func (d *Deserializer) UnpackOption() bool {
	switch b := d.UnpackU8(); {
	case d.Errored():
		return false
	case b == 0:
		return false
	case b == 1:
		return true
	default:
		d.offset--
		d.Fail(ErrInvalidOptionTag)
		return false
	}
}

// UnpackFixedBytes reads exactly [n] bytes. The returned slice is a copy.
func (d *Deserializer) UnpackFixedBytes(n int) []byte {
	b := d.next(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// UnpackBytes reads a length prefixed byte sequence.
func (d *Deserializer) UnpackBytes() []byte {
	length := d.UnpackLen()
	if d.Errored() {
		return nil
	}
	return d.UnpackFixedBytes(length)
}

func (d *Deserializer) UnpackStr() string {
	length := d.UnpackLen()
	b := d.next(length)
	if d.Errored() {
		return ""
	}
	if !utf8.Valid(b) {
		d.offset -= length
		d.Fail(ErrInvalidUTF8)
		return ""
	}
	return string(b)
}

// Unpack reads a nested composite value into [v].
func (d *Deserializer) Unpack(v Unmarshaler) {
	if d.Errored() {
		return
	}
	if d.depth >= MaxContainerDepth {
		d.Fail(ErrMaxDepthExceeded)
		return
	}
	d.depth++
	v.UnmarshalBCS(d)
	d.depth--
}
