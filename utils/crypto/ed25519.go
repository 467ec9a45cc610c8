// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"bytes"
	"errors"

	"golang.org/x/crypto/ed25519"

	"github.com/diem/client-sdk-go/ids"
)

var (
	errWrongPublicKeySize  = errors.New("wrong public key size")
	errWrongPrivateKeySize = errors.New("wrong private key size")
	errMismatchedKeyPair   = errors.New("private key does not match its public key")

	_ Factory    = (*FactoryED25519)(nil)
	_ PublicKey  = (*PublicKeyED25519)(nil)
	_ PrivateKey = (*PrivateKeyED25519)(nil)
)

type FactoryED25519 struct{}

func (*FactoryED25519) NewPrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return newPrivateKey(k), nil
}

func (*FactoryED25519) ToPublicKey(b []byte) (PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, errWrongPublicKeySize
	}
	pk := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pk, b)
	return &PublicKeyED25519{pk: pk}, nil
}

// ToPrivateKey accepts either a 32 byte seed or the 64 byte seed || public
// key encoding.
func (*FactoryED25519) ToPrivateKey(b []byte) (PrivateKey, error) {
	switch len(b) {
	case ed25519.SeedSize:
		return newPrivateKey(ed25519.NewKeyFromSeed(b)), nil
	case ed25519.PrivateKeySize:
		sk := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
		if !bytes.Equal(sk[ed25519.SeedSize:], b[ed25519.SeedSize:]) {
			return nil, errMismatchedKeyPair
		}
		return newPrivateKey(sk), nil
	default:
		return nil, errWrongPrivateKeySize
	}
}

type PublicKeyED25519 struct {
	pk ed25519.PublicKey
}

func (k *PublicKeyED25519) Verify(msg, sig []byte) bool {
	return len(sig) == ed25519.SignatureSize && ed25519.Verify(k.pk, msg, sig)
}

func (k *PublicKeyED25519) AuthKey() AuthKey {
	return NewAuthKey(k.pk, Ed25519Scheme)
}

func (k *PublicKeyED25519) Address() ids.AccountAddress {
	return k.AuthKey().Address()
}

func (k *PublicKeyED25519) Bytes() []byte { return k.pk }

type PrivateKeyED25519 struct {
	sk ed25519.PrivateKey
	pk *PublicKeyED25519
}

// newPrivateKey derives the public key up front so that a key can be shared
// by concurrent signers.
func newPrivateKey(sk ed25519.PrivateKey) *PrivateKeyED25519 {
	return &PrivateKeyED25519{
		sk: sk,
		pk: &PublicKeyED25519{
			pk: sk.Public().(ed25519.PublicKey),
		},
	}
}

func (k *PrivateKeyED25519) PublicKey() PublicKey { return k.pk }

// Sign is deterministic: the same key and message always produce the same
// signature.
func (k *PrivateKeyED25519) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(k.sk, msg), nil
}

// Bytes returns the 32 byte seed of the key.
func (k *PrivateKeyED25519) Bytes() []byte { return k.sk.Seed() }
