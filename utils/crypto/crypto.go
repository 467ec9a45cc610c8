// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import "github.com/diem/client-sdk-go/ids"

// Factory creates and parses keys of one signature scheme
type Factory interface {
	NewPrivateKey() (PrivateKey, error)

	ToPublicKey([]byte) (PublicKey, error)
	ToPrivateKey([]byte) (PrivateKey, error)
}

type PublicKey interface {
	Verify(message, signature []byte) bool

	// AuthKey is the authentication key this public key rotates an account
	// to.
	AuthKey() AuthKey
	// Address is the account address derived from AuthKey.
	Address() ids.AccountAddress
	Bytes() []byte
}

type PrivateKey interface {
	PublicKey() PublicKey

	Sign(message []byte) ([]byte, error)

	Bytes() []byte
}
