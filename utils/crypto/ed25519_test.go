// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diem/client-sdk-go/utils/hashing"
)

// RFC 8032 section 7.1, test 1
const (
	rfcSeedHex      = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfcPublicKeyHex = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	rfcSignatureHex = "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestED25519KnownVector(t *testing.T) {
	require := require.New(t)

	factory := FactoryED25519{}
	sk, err := factory.ToPrivateKey(mustDecodeHex(t, rfcSeedHex))
	require.NoError(err)

	pk := sk.PublicKey()
	require.Equal(rfcPublicKeyHex, hex.EncodeToString(pk.Bytes()))

	sig, err := sk.Sign(nil)
	require.NoError(err)
	require.Equal(rfcSignatureHex, hex.EncodeToString(sig))
	require.True(pk.Verify(nil, sig))
	require.False(pk.Verify([]byte{0}, sig))
	require.False(pk.Verify(nil, sig[:32]))

	require.Equal(mustDecodeHex(t, rfcSeedHex), sk.Bytes())
}

func TestED25519SignIsDeterministic(t *testing.T) {
	require := require.New(t)

	factory := FactoryED25519{}
	sk, err := factory.NewPrivateKey()
	require.NoError(err)

	msg := []byte("hello")
	sig0, err := sk.Sign(msg)
	require.NoError(err)
	sig1, err := sk.Sign(msg)
	require.NoError(err)
	require.Equal(sig0, sig1)
	require.True(sk.PublicKey().Verify(msg, sig0))
}

func TestED25519InvalidKeyMaterial(t *testing.T) {
	require := require.New(t)

	factory := FactoryED25519{}

	_, err := factory.ToPrivateKey(make([]byte, 31))
	require.ErrorIs(err, errWrongPrivateKeySize)

	full := append(mustDecodeHex(t, rfcSeedHex), make([]byte, 32)...)
	_, err = factory.ToPrivateKey(full)
	require.ErrorIs(err, errMismatchedKeyPair)

	full = append(mustDecodeHex(t, rfcSeedHex), mustDecodeHex(t, rfcPublicKeyHex)...)
	sk, err := factory.ToPrivateKey(full)
	require.NoError(err)
	require.Equal(rfcPublicKeyHex, hex.EncodeToString(sk.PublicKey().Bytes()))

	_, err = factory.ToPublicKey(make([]byte, 33))
	require.ErrorIs(err, errWrongPublicKeySize)
}

func TestAuthKeyAndAddress(t *testing.T) {
	require := require.New(t)

	factory := FactoryED25519{}
	pk, err := factory.ToPublicKey(mustDecodeHex(t, rfcPublicKeyHex))
	require.NoError(err)

	expected := hashing.ComputeHash256(append(mustDecodeHex(t, rfcPublicKeyHex), Ed25519Scheme))
	authKey := pk.AuthKey()
	require.Equal(expected, authKey[:])
	require.Equal(expected[:16], authKey.Prefix())

	addr := pk.Address()
	require.Equal(expected[16:], addr[:])
	require.Equal(hex.EncodeToString(expected), authKey.Hex())
}
