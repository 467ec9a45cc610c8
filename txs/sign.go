// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/utils/crypto"
	"github.com/diem/client-sdk-go/utils/hashing"
)

var errNilSigner = errors.New("nil signer")

// SigningMessage returns the bytes a sender signs to authorize [tx]:
// HashPrefix("RawTransaction") || encode(tx).
func SigningMessage(tx *RawTransaction) ([]byte, error) {
	if tx == nil {
		return nil, errNilRawTx
	}
	s := codec.Serializer{
		Bytes: hashing.HashPrefix(hashing.RawTransactionDomain),
	}
	s.Pack(tx)
	return s.Bytes, s.Err
}

// Sign returns [tx] signed by [key].
func Sign(key crypto.PrivateKey, tx *RawTransaction) (*SignedTransaction, error) {
	if key == nil {
		return nil, errNilSigner
	}
	msg, err := SigningMessage(tx)
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(msg)
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{
		RawTxn: tx,
		Authenticator: &Ed25519Authenticator{
			PublicKey: key.PublicKey().Bytes(),
			Signature: sig,
		},
	}, nil
}
