// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diem/client-sdk-go/codec"
)

func TestAddressFromHex(t *testing.T) {
	require := require.New(t)

	addr, err := AddressFromHex("0x0000000000000000000000000A550C18")
	require.NoError(err)
	require.Equal(DiemRootAddress, addr)
	require.Equal("0000000000000000000000000a550c18", addr.String())

	addr, err = AddressFromHex("00000000000000000000000000000001")
	require.NoError(err)
	require.Equal(CoreCodeAddress, addr)

	_, err = AddressFromHex("0001")
	require.ErrorIs(err, ErrInvalidAddressLen)

	_, err = AddressFromHex("zz")
	require.Error(err)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)

	type wrapper struct {
		Address AccountAddress `json:"address"`
	}

	bytes, err := json.Marshal(wrapper{Address: TreasuryComplianceAddress})
	require.NoError(err)
	require.Equal(`{"address":"0000000000000000000000000b1e55ed"}`, string(bytes))

	parsed := wrapper{}
	require.NoError(json.Unmarshal(bytes, &parsed))
	require.Equal(TreasuryComplianceAddress, parsed.Address)
}

func TestAddressBCS(t *testing.T) {
	require := require.New(t)

	addr := AccountAddress{0: 0x01, 15: 0xff}
	bytes, err := codec.Marshal(addr)
	require.NoError(err)
	require.Equal(addr[:], bytes)

	parsed := AccountAddress{}
	require.NoError(codec.Unmarshal(bytes, &parsed))
	require.Equal(addr, parsed)

	err = codec.Unmarshal(bytes[:AddressLen-1], &parsed)
	require.ErrorIs(err, codec.ErrUnexpectedEOF)
}

func TestSubAddress(t *testing.T) {
	require := require.New(t)

	require.True(EmptySubAddress.IsZero())

	sub, err := GenSubAddress()
	require.NoError(err)
	require.False(sub.IsZero())

	parsed, err := SubAddressFromHex(sub.Hex())
	require.NoError(err)
	require.Equal(sub, parsed)

	_, err = ToSubAddress(make([]byte, SubAddressLen+1))
	require.ErrorIs(err, ErrInvalidSubAddressLen)

	text, err := sub.MarshalText()
	require.NoError(err)
	again := SubAddress{}
	require.NoError(again.UnmarshalText(text))
	require.Equal(sub, again)
}
