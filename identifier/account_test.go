// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package identifier

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/utils/constants"
)

const (
	testAddressHex    = "f72589b71ff4f8d139674a3f7369c69b"
	testSubAddressHex = "cf64428bdeb62af2"
)

func testAddresses(t *testing.T) (ids.AccountAddress, ids.SubAddress) {
	addr, err := ids.AddressFromHex(testAddressHex)
	require.NoError(t, err)
	sub, err := ids.SubAddressFromHex(testSubAddressHex)
	require.NoError(t, err)
	return addr, sub
}

func TestEncodeKnownVectors(t *testing.T) {
	addr, sub := testAddresses(t)
	tests := []struct {
		name     string
		hrp      string
		sub      ids.SubAddress
		expected string
	}{
		{
			name:     "mainnet with sub-address",
			hrp:      constants.MainnetHRP,
			sub:      sub,
			expected: "dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4us2vfufk",
		},
		{
			name:     "mainnet without sub-address",
			hrp:      constants.MainnetHRP,
			sub:      ids.EmptySubAddress,
			expected: "dm1p7ujcndcl7nudzwt8fglhx6wxnvqqqqqqqqqqqqqd8p9cq",
		},
		{
			name:     "testnet with sub-address",
			hrp:      constants.TestnetHRP,
			sub:      sub,
			expected: "tdm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4ustv0tyx",
		},
		{
			name:     "testnet without sub-address",
			hrp:      constants.TestnetHRP,
			sub:      ids.EmptySubAddress,
			expected: "tdm1p7ujcndcl7nudzwt8fglhx6wxnvqqqqqqqqqqqqqv88j4s",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			encoded, err := Encode(test.hrp, addr, test.sub)
			require.NoError(err)
			require.Equal(test.expected, encoded)

			id, err := Decode(test.hrp, test.expected)
			require.NoError(err)
			require.Equal(New(test.hrp, addr, test.sub), id)

			// identifiers are case-insensitive
			id, err = Decode(test.hrp, strings.ToUpper(test.expected))
			require.NoError(err)
			require.Equal(addr, id.Address)
		})
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	require := require.New(t)

	_, err := Decode(constants.MainnetHRP, "dm1z7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4usnk95r7")
	require.ErrorIs(err, ErrUnsupportedVersion)
}

func TestDecodeHRPMismatch(t *testing.T) {
	require := require.New(t)

	_, err := Decode(constants.TestnetHRP, "dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4us2vfufk")
	require.ErrorIs(err, ErrHRPMismatch)
}

func TestEncodeInvalidHRP(t *testing.T) {
	addr, sub := testAddresses(t)
	for _, hrp := range []string{"", "DM", "Dm"} {
		t.Run(hrp, func(t *testing.T) {
			_, err := Encode(hrp, addr, sub)
			require.ErrorIs(t, err, ErrInvalidHRP)
		})
	}
}

func TestDecodeHRPIsCaseInsensitive(t *testing.T) {
	require := require.New(t)

	id, err := Decode("DM", "dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4us2vfufk")
	require.NoError(err)
	require.Equal(constants.MainnetHRP, id.HRP)
}

func TestDecodeInvalidLength(t *testing.T) {
	require := require.New(t)

	data, err := bech32.ConvertBits(make([]byte, ids.AddressLen), 8, 5, true)
	require.NoError(err)
	short, err := bech32.Encode(constants.MainnetHRP, append([]byte{Version}, data...))
	require.NoError(err)

	_, err = Decode(constants.MainnetHRP, short)
	require.ErrorIs(err, ErrInvalidLength)

	empty, err := bech32.Encode(constants.MainnetHRP, nil)
	require.NoError(err)
	_, err = Decode(constants.MainnetHRP, empty)
	require.ErrorIs(err, ErrInvalidLength)
}

func TestDecodeInvalidEncoding(t *testing.T) {
	tests := []string{
		"",
		"dm1",
		"dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4uS2vfufk", // mixed case
		"dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4ub2vfufk", // not in charset
	}
	for _, test := range tests {
		t.Run(test, func(t *testing.T) {
			_, err := Decode(constants.MainnetHRP, test)
			require.ErrorIs(t, err, ErrInvalidEncoding)
		})
	}
}

func TestSingleCharacterFlipFailsChecksum(t *testing.T) {
	const (
		valid   = "dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4us2vfufk"
		charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	)
	separator := strings.LastIndexByte(valid, '1')
	for i := range valid {
		if i == separator {
			continue
		}
		// replace with the next charset character, which differs from the
		// original and is never the separator
		next := charset[(strings.IndexByte(charset, valid[i])+1)%len(charset)]
		flipped := valid[:i] + string(next) + valid[i+1:]

		_, err := Decode(constants.MainnetHRP, flipped)
		require.ErrorIs(t, err, ErrInvalidChecksum, "flipped index %d: %s", i, flipped)
	}
}

func TestEncodeDecodeProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("account identifiers round trip", prop.ForAll(
		func(hrp string, addrBytes []byte, subBytes []byte) bool {
			addr, err := ids.ToAccountAddress(addrBytes)
			if err != nil {
				return false
			}
			sub, err := ids.ToSubAddress(subBytes)
			if err != nil {
				return false
			}
			encoded, err := Encode(hrp, addr, sub)
			if err != nil || encoded != strings.ToLower(encoded) {
				return false
			}
			id, err := Decode(hrp, encoded)
			return err == nil && id.Address == addr && id.SubAddress == sub && id.HRP == hrp
		},
		gen.OneConstOf(constants.MainnetHRP, constants.TestnetHRP, constants.PremainnetHRP),
		gen.SliceOfN(ids.AddressLen, gen.UInt8()),
		gen.SliceOfN(ids.SubAddressLen, gen.UInt8()),
	))

	properties.TestingRun(t)
}

func TestHRPForChain(t *testing.T) {
	require := require.New(t)

	require.Equal("dm", HRPForChain(constants.MainnetID))
	require.Equal("tdm", HRPForChain(constants.TestnetID))
	require.Equal("tdm", HRPForChain(constants.DevnetID))
	require.Equal("tdm", HRPForChain(constants.TestingID))
	require.Equal("pdm", HRPForChain(constants.PremainnetID))
}
