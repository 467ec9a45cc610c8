// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package identifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/utils/constants"
)

const testAccountID = "dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4us2vfufk"

func TestIntentEncode(t *testing.T) {
	addr, sub := testAddresses(t)
	account := New(constants.MainnetHRP, addr, sub)
	amount := uint64(123)

	tests := []struct {
		name     string
		intent   *Intent
		expected string
	}{
		{
			name:     "account only",
			intent:   &Intent{Account: account},
			expected: "diem://" + testAccountID,
		},
		{
			name:     "currency",
			intent:   &Intent{Account: account, Currency: "XUS"},
			expected: "diem://" + testAccountID + "?c=XUS",
		},
		{
			name:     "amount",
			intent:   &Intent{Account: account, Amount: &amount},
			expected: "diem://" + testAccountID + "?am=123",
		},
		{
			name:     "amount and currency",
			intent:   &Intent{Account: account, Currency: "XUS", Amount: &amount},
			expected: "diem://" + testAccountID + "?am=123&c=XUS",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			encoded, err := test.intent.Encode()
			require.NoError(err)
			require.Equal(test.expected, encoded)
			require.Equal(test.expected, test.intent.String())

			decoded, err := DecodeIntent(constants.MainnetHRP, encoded)
			require.NoError(err)
			require.Equal(test.intent, decoded)
		})
	}
}

func TestDecodeIntentErrors(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		expectedErr error
	}{
		{
			name:        "wrong scheme",
			uri:         "libra://" + testAccountID,
			expectedErr: ErrInvalidScheme,
		},
		{
			name:        "missing scheme",
			uri:         testAccountID,
			expectedErr: ErrInvalidScheme,
		},
		{
			name:        "unparsable",
			uri:         "diem://%zz",
			expectedErr: ErrInvalidURI,
		},
		{
			name:        "path",
			uri:         "diem://" + testAccountID + "/path",
			expectedErr: ErrInvalidURI,
		},
		{
			name:        "bad query",
			uri:         "diem://" + testAccountID + "?am=%zz",
			expectedErr: ErrInvalidURI,
		},
		{
			name:        "invalid amount",
			uri:         "diem://" + testAccountID + "?am=-1",
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "invalid account checksum",
			uri:         "diem://dm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4us2vfufq",
			expectedErr: ErrInvalidChecksum,
		},
		{
			name:        "wrong network",
			uri:         "diem://tdm1p7ujcndcl7nudzwt8fglhx6wxn08kgs5tm6mz4ustv0tyx",
			expectedErr: ErrHRPMismatch,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeIntent(constants.MainnetHRP, test.uri)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestIntentWithoutSubAddress(t *testing.T) {
	require := require.New(t)

	addr, _ := testAddresses(t)
	intent := &Intent{Account: New(constants.TestnetHRP, addr, ids.EmptySubAddress)}
	encoded, err := intent.Encode()
	require.NoError(err)
	require.Equal("diem://tdm1p7ujcndcl7nudzwt8fglhx6wxnvqqqqqqqqqqqqqv88j4s", encoded)

	decoded, err := DecodeIntent(constants.TestnetHRP, encoded)
	require.NoError(err)
	require.True(decoded.Account.SubAddress.IsZero())
}

func TestIntentWithoutAccount(t *testing.T) {
	require := require.New(t)

	intent := &Intent{Currency: "XUS"}
	_, err := intent.Encode()
	require.ErrorIs(err, ErrMissingAccount)
	require.Empty(intent.String())
}
