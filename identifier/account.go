// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package identifier encodes account addresses and payment requests as
// shareable strings.
package identifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/utils/constants"
)

// Version is the only defined account identifier version.
const Version byte = 1

const payloadLen = ids.AddressLen + ids.SubAddressLen

var (
	ErrInvalidChecksum    = errors.New("invalid account identifier checksum")
	ErrHRPMismatch        = errors.New("account identifier network prefix mismatch")
	ErrInvalidLength      = errors.New("invalid account identifier length")
	ErrUnsupportedVersion = errors.New("unsupported account identifier version")
	ErrInvalidEncoding    = errors.New("invalid account identifier encoding")
	ErrInvalidHRP         = errors.New("invalid account identifier network prefix")
)

// AccountIdentifier names an account, and optionally one of the users of a
// custodial account, on one network.
type AccountIdentifier struct {
	HRP        string
	Address    ids.AccountAddress
	SubAddress ids.SubAddress
}

// HRPForChain returns the network prefix of identifiers on [chainID].
func HRPForChain(chainID constants.ChainID) string {
	return constants.GetHRP(chainID)
}

func New(hrp string, address ids.AccountAddress, subAddress ids.SubAddress) *AccountIdentifier {
	return &AccountIdentifier{
		HRP:        hrp,
		Address:    address,
		SubAddress: subAddress,
	}
}

// Encode returns the lowercase bech32 encoding of the identifier.
func (id *AccountIdentifier) Encode() (string, error) {
	return Encode(id.HRP, id.Address, id.SubAddress)
}

// String returns the encoding of the identifier or the empty string if it
// can not be encoded.
func (id *AccountIdentifier) String() string {
	str, _ := id.Encode()
	return str
}

// Encode returns [hrp] || "1" || bech32(version || address || subAddress)
// with a bech32 checksum. [hrp] must be lowercase.
func Encode(hrp string, address ids.AccountAddress, subAddress ids.SubAddress) (string, error) {
	if hrp == "" || hrp != strings.ToLower(hrp) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHRP, hrp)
	}

	payload := make([]byte, 0, payloadLen)
	payload = append(payload, address[:]...)
	payload = append(payload, subAddress[:]...)

	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	str, err := bech32.Encode(hrp, append([]byte{Version}, data...))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	return str, nil
}

// Decode parses an identifier encoded by Encode and checks that it belongs
// to the network identified by [expectedHRP]. Prefixes compare case
// insensitively.
func Decode(expectedHRP string, str string) (*AccountIdentifier, error) {
	expectedHRP = strings.ToLower(expectedHRP)
	hrp, data, version, err := bech32.DecodeGeneric(str)
	var checksumErr bech32.ErrInvalidChecksum
	switch {
	case errors.As(err, &checksumErr):
		return nil, fmt.Errorf("%w: %s", ErrInvalidChecksum, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	case version != bech32.Version0:
		return nil, fmt.Errorf("%w: not a bech32 checksum", ErrInvalidChecksum)
	case hrp != expectedHRP:
		return nil, fmt.Errorf("%w: expected %q but got %q", ErrHRPMismatch, expectedHRP, hrp)
	case len(data) == 0:
		return nil, fmt.Errorf("%w: missing version", ErrInvalidLength)
	case data[0] != Version:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}

	payload, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	if len(payload) != payloadLen {
		return nil, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidLength, payloadLen, len(payload))
	}

	id := &AccountIdentifier{HRP: hrp}
	copy(id.Address[:], payload[:ids.AddressLen])
	copy(id.SubAddress[:], payload[ids.AddressLen:])
	return id, nil
}
