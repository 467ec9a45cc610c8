// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"encoding/hex"

	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/utils/hashing"
)

// Signature scheme identifiers appended to the public key when deriving an
// authentication key.
const (
	Ed25519Scheme      byte = 0
	MultiEd25519Scheme byte = 1
)

// AuthKey is SHA3-256(public key || scheme).
type AuthKey [hashing.HashLen]byte

func NewAuthKey(publicKey []byte, scheme byte) AuthKey {
	return AuthKey(hashing.ComputeHash256Concat(publicKey, []byte{scheme}))
}

// Prefix returns the first half of the authentication key. Together with
// the account address it reconstructs the full key.
func (k AuthKey) Prefix() []byte { return k[:hashing.HashLen-ids.AddressLen] }

// Address returns the last 16 bytes of the authentication key.
func (k AuthKey) Address() ids.AccountAddress {
	addr := ids.AccountAddress{}
	copy(addr[:], k[hashing.HashLen-ids.AddressLen:])
	return addr
}

func (k AuthKey) Hex() string { return hex.EncodeToString(k[:]) }
