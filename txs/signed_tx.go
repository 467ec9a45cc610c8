// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/utils/hashing"
)

// Transaction envelope variant indices
const (
	UserTransactionIndex uint32 = iota
	GenesisTransactionIndex
	BlockMetadataIndex
)

var (
	ErrInvalidSignature = errors.New("invalid signature")

	_ codec.Marshaler   = (*SignedTransaction)(nil)
	_ codec.Unmarshaler = (*SignedTransaction)(nil)
	_ codec.Marshaler   = (*UserTransaction)(nil)
)

// SignedTransaction is a RawTransaction together with the proof that its
// sender authorized it.
type SignedTransaction struct {
	RawTxn        *RawTransaction
	Authenticator TransactionAuthenticator
}

func (tx *SignedTransaction) MarshalBCS(s *codec.Serializer) {
	switch {
	case tx.RawTxn == nil:
		s.Add(errNilRawTx)
	case tx.Authenticator == nil:
		s.Add(errNilAuthenticator)
	default:
		s.Pack(tx.RawTxn)
		s.Pack(tx.Authenticator)
	}
}

func (tx *SignedTransaction) UnmarshalBCS(d *codec.Deserializer) {
	tx.RawTxn = &RawTransaction{}
	d.Unpack(tx.RawTxn)
	box := authenticatorBox{}
	d.Unpack(&box)
	tx.Authenticator = box.auth
}

// Bytes returns the canonical encoding of the transaction.
func (tx *SignedTransaction) Bytes() ([]byte, error) {
	return codec.Marshal(tx)
}

// Hex returns the lowercase hex of Bytes, the form the submit method takes.
func (tx *SignedTransaction) Hex() (string, error) {
	bytes, err := tx.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Hash returns the lowercase hex hash the chain reports for this
// transaction once it is included.
func (tx *SignedTransaction) Hash() (string, error) {
	bytes, err := codec.Marshal(&UserTransaction{Signed: tx})
	if err != nil {
		return "", err
	}
	hash := hashing.ComputeHash256Concat(
		hashing.HashPrefix(hashing.TransactionDomain),
		bytes,
	)
	return hex.EncodeToString(hash[:]), nil
}

// Verify returns nil if the authenticator signed the raw transaction.
func (tx *SignedTransaction) Verify() error {
	if tx.Authenticator == nil {
		return errNilAuthenticator
	}
	msg, err := SigningMessage(tx.RawTxn)
	if err != nil {
		return err
	}
	return tx.Authenticator.Verify(msg)
}

// DecodeSignedTransaction parses the canonical encoding of a signed
// transaction.
func DecodeSignedTransaction(bytes []byte) (*SignedTransaction, error) {
	tx := &SignedTransaction{}
	if err := codec.Unmarshal(bytes, tx); err != nil {
		return nil, fmt.Errorf("couldn't parse signed transaction: %w", err)
	}
	return tx, nil
}

// DecodeSignedTransactionHex is the inverse of SignedTransaction.Hex.
func DecodeSignedTransactionHex(str string) (*SignedTransaction, error) {
	bytes, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil {
		return nil, fmt.Errorf("couldn't decode signed transaction hex: %w", err)
	}
	return DecodeSignedTransaction(bytes)
}

// UserTransaction is the variant of the chain's transaction envelope that
// wraps a signed transaction. Its encoding is what the transaction hash
// covers.
type UserTransaction struct {
	Signed *SignedTransaction
}

func (tx *UserTransaction) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(UserTransactionIndex)
	if tx.Signed == nil {
		s.Add(errNilRawTx)
		return
	}
	s.Pack(tx.Signed)
}
