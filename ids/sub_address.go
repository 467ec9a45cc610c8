// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// SubAddressLen is the number of bytes in a sub-address
const SubAddressLen = 8

var (
	// EmptySubAddress is the canonical "no sub-address" value
	EmptySubAddress = SubAddress{}

	ErrInvalidSubAddressLen = errors.New("invalid sub-address length")
)

// SubAddress routes a payment to one of the users sharing a custodial
// account.
type SubAddress [SubAddressLen]byte

// ToSubAddress attempts to convert a byte slice into a sub-address
func ToSubAddress(bytes []byte) (SubAddress, error) {
	sub := SubAddress{}
	if len(bytes) != SubAddressLen {
		return sub, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidSubAddressLen, SubAddressLen, len(bytes))
	}
	copy(sub[:], bytes)
	return sub, nil
}

// SubAddressFromHex is the inverse of SubAddress.Hex
func SubAddressFromHex(subStr string) (SubAddress, error) {
	bytes, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(subStr), "0x"))
	if err != nil {
		return SubAddress{}, fmt.Errorf("couldn't decode sub-address %q: %w", subStr, err)
	}
	return ToSubAddress(bytes)
}

// GenSubAddress returns a random, non-zero sub-address.
func GenSubAddress() (SubAddress, error) {
	sub := SubAddress{}
	for sub.IsZero() {
		if _, err := rand.Read(sub[:]); err != nil {
			return SubAddress{}, err
		}
	}
	return sub, nil
}

// IsZero returns true if this is the "no sub-address" value
func (s SubAddress) IsZero() bool { return s == EmptySubAddress }

func (s SubAddress) Bytes() []byte { return s[:] }

func (s SubAddress) Hex() string { return hex.EncodeToString(s[:]) }

func (s SubAddress) String() string { return s.Hex() }

func (s SubAddress) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

func (s *SubAddress) UnmarshalText(text []byte) error {
	sub, err := SubAddressFromHex(string(text))
	if err != nil {
		return err
	}
	*s = sub
	return nil
}
