// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/diem/client-sdk-go/codec"
)

// AddressLen is the number of bytes in an account address
const AddressLen = 16

var (
	// EmptyAddress is a useful all zero value
	EmptyAddress = AccountAddress{}

	// CoreCodeAddress is the account that publishes the framework modules.
	CoreCodeAddress = AccountAddress{15: 0x01}
	// DiemRootAddress is the account of the association root.
	DiemRootAddress = AccountAddress{12: 0x0a, 13: 0x55, 14: 0x0c, 15: 0x18}
	// TreasuryComplianceAddress is the account of the treasury compliance
	// role.
	TreasuryComplianceAddress = AccountAddress{12: 0x0b, 13: 0x1e, 14: 0x55, 15: 0xed}

	ErrInvalidAddressLen = errors.New("invalid account address length")

	_ codec.Marshaler   = AccountAddress{}
	_ codec.Unmarshaler = (*AccountAddress)(nil)
)

// AccountAddress identifies an on-chain account
type AccountAddress [AddressLen]byte

// ToAccountAddress attempts to convert a byte slice into an account address
func ToAccountAddress(bytes []byte) (AccountAddress, error) {
	addr := AccountAddress{}
	if len(bytes) != AddressLen {
		return addr, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidAddressLen, AddressLen, len(bytes))
	}
	copy(addr[:], bytes)
	return addr, nil
}

// AddressFromHex is the inverse of AccountAddress.Hex. An optional 0x prefix
// is accepted and the input is case-insensitive.
func AddressFromHex(addrStr string) (AccountAddress, error) {
	bytes, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(addrStr), "0x"))
	if err != nil {
		return AccountAddress{}, fmt.Errorf("couldn't decode address %q: %w", addrStr, err)
	}
	return ToAccountAddress(bytes)
}

// Bytes returns the address as a slice.
func (a AccountAddress) Bytes() []byte { return a[:] }

// Hex returns the lowercase hex encoding of the address, without prefix.
func (a AccountAddress) Hex() string { return hex.EncodeToString(a[:]) }

func (a AccountAddress) String() string { return a.Hex() }

func (a AccountAddress) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *AccountAddress) UnmarshalText(text []byte) error {
	addr, err := AddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a AccountAddress) MarshalBCS(s *codec.Serializer) {
	s.PackFixedBytes(a[:])
}

func (a *AccountAddress) UnmarshalBCS(d *codec.Deserializer) {
	copy(a[:], d.UnpackFixedBytes(AddressLen))
}
