// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec implements the canonical binary encoding (BCS) used for
// hashing, signing and submitting transactions.
//
// Every value has exactly one valid encoding: integers are little-endian,
// sequence lengths and variant indices are ULEB128, optional values carry a
// presence byte and struct fields are written in their declared order.
package codec

import (
	"errors"
	"fmt"

	"github.com/diem/client-sdk-go/utils/units"
)

const (
	// MaxContainerDepth is the deepest nesting of composite values accepted
	// while encoding or decoding.
	MaxContainerDepth = 500

	// MaxSequenceLength is the largest length prefix accepted.
	MaxSequenceLength = 1<<31 - 1

	// default max size, in bytes, of something being unmarshalled by
	// Unmarshal()
	defaultMaxSize = 4 * units.MiB

	// initial capacity of byte slice that values are marshaled into.
	initialSliceCap = 128
)

var (
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrRemainingInput      = errors.New("unconsumed input")
	ErrMaxDepthExceeded    = errors.New("exceeded max container depth")
	ErrUnknownVariant      = errors.New("unknown variant index")
	ErrNonCanonicalULEB128 = errors.New("non-canonical ULEB128 encoding")
	ErrULEB128Overflow     = errors.New("ULEB128 value overflows u32")
	ErrLengthOverflow      = errors.New("sequence length exceeds max length")
	ErrInvalidBool         = errors.New("invalid bool byte")
	ErrInvalidOptionTag    = errors.New("invalid option tag")
	ErrInvalidUTF8         = errors.New("invalid utf-8 string")
	ErrMaxSizeExceeded     = errors.New("input exceeds max size")

	errMarshalNil   = errors.New("can't marshal nil value")
	errUnmarshalNil = errors.New("can't unmarshal into nil value")
)

// Marshaler is implemented by values with a canonical encoding.
type Marshaler interface {
	MarshalBCS(s *Serializer)
}

// Unmarshaler is implemented by values that can be decoded from their
// canonical encoding.
type Unmarshaler interface {
	UnmarshalBCS(d *Deserializer)
}

// DecodeError reports a structural failure while decoding and where in the
// input it occurred.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bcs: %s at offset %d", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsStructural returns true if [err] was produced by a failed decode.
func IsStructural(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// Marshal returns the canonical encoding of [value].
func Marshal(value Marshaler) ([]byte, error) {
	if value == nil {
		return nil, errMarshalNil
	}
	s := Serializer{
		Bytes: make([]byte, 0, initialSliceCap),
	}
	s.Pack(value)
	return s.Bytes, s.Err
}

// Unmarshal decodes [bytes] into [dest]. The whole input must be consumed.
func Unmarshal(bytes []byte, dest Unmarshaler) error {
	return UnmarshalWithMaxSize(bytes, dest, defaultMaxSize)
}

// UnmarshalWithMaxSize is Unmarshal with an explicit bound on the input size.
func UnmarshalWithMaxSize(bytes []byte, dest Unmarshaler, maxSize int) error {
	if dest == nil {
		return errUnmarshalNil
	}
	if len(bytes) > maxSize {
		return fmt.Errorf("%w: %d > %d", ErrMaxSizeExceeded, len(bytes), maxSize)
	}

	d := NewDeserializer(bytes)
	d.Unpack(dest)
	return d.Finish()
}
