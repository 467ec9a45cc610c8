// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/utils/crypto"
)

// Authenticator variant indices
const (
	Ed25519AuthenticatorIndex uint32 = iota
	MultiEd25519AuthenticatorIndex
)

const (
	ed25519PublicKeyLen = 32
	ed25519SignatureLen = 64

	multiEd25519MaxKeys   = 32
	multiEd25519BitmapLen = 4
)

var (
	errNilAuthenticator      = errors.New("nil transaction authenticator")
	errInvalidMultiPublicKey = errors.New("invalid multi-ed25519 public key")
	errInvalidMultiSignature = errors.New("invalid multi-ed25519 signature")

	_ TransactionAuthenticator = (*Ed25519Authenticator)(nil)
	_ TransactionAuthenticator = (*MultiEd25519Authenticator)(nil)

	factory crypto.FactoryED25519
)

// TransactionAuthenticator proves the sender authorized a transaction.
type TransactionAuthenticator interface {
	codec.Marshaler

	Index() uint32
	// AuthKey is the authentication key the sender account must hold.
	AuthKey() crypto.AuthKey
	// Verify returns nil if the authenticator signed [msg].
	Verify(msg []byte) error
}

// Ed25519Authenticator carries a single public key and its signature.
type Ed25519Authenticator struct {
	PublicKey []byte
	Signature []byte
}

func (*Ed25519Authenticator) Index() uint32 { return Ed25519AuthenticatorIndex }

func (a *Ed25519Authenticator) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackBytes(a.PublicKey)
	s.PackBytes(a.Signature)
}

func (a *Ed25519Authenticator) AuthKey() crypto.AuthKey {
	return crypto.NewAuthKey(a.PublicKey, crypto.Ed25519Scheme)
}

func (a *Ed25519Authenticator) Verify(msg []byte) error {
	pk, err := factory.ToPublicKey(a.PublicKey)
	if err != nil {
		return err
	}
	if !pk.Verify(msg, a.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

// MultiEd25519Authenticator carries a K-of-N multi-signature. PublicKey is
// N 32 byte keys followed by the threshold K. Signature is the signatures
// of the signing keys, in key order, followed by a 4 byte bitmap whose most
// significant bit first marks which keys signed.
type MultiEd25519Authenticator struct {
	PublicKey []byte
	Signature []byte
}

func (*MultiEd25519Authenticator) Index() uint32 { return MultiEd25519AuthenticatorIndex }

func (a *MultiEd25519Authenticator) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(a.Index())
	s.PackBytes(a.PublicKey)
	s.PackBytes(a.Signature)
}

func (a *MultiEd25519Authenticator) AuthKey() crypto.AuthKey {
	return crypto.NewAuthKey(a.PublicKey, crypto.MultiEd25519Scheme)
}

func (a *MultiEd25519Authenticator) Verify(msg []byte) error {
	numKeys := len(a.PublicKey) / ed25519PublicKeyLen
	if len(a.PublicKey)%ed25519PublicKeyLen != 1 || numKeys == 0 || numKeys > multiEd25519MaxKeys {
		return fmt.Errorf("%w: %d bytes", errInvalidMultiPublicKey, len(a.PublicKey))
	}
	threshold := int(a.PublicKey[len(a.PublicKey)-1])
	if threshold == 0 || threshold > numKeys {
		return fmt.Errorf("%w: threshold %d of %d", errInvalidMultiPublicKey, threshold, numKeys)
	}

	sigLen := len(a.Signature) - multiEd25519BitmapLen
	if sigLen < 0 || sigLen%ed25519SignatureLen != 0 {
		return fmt.Errorf("%w: %d bytes", errInvalidMultiSignature, len(a.Signature))
	}
	bitmap := a.Signature[sigLen:]
	sigs := a.Signature[:sigLen]

	signers := make([]int, 0, sigLen/ed25519SignatureLen)
	for i := 0; i < multiEd25519MaxKeys; i++ {
		if bitmap[i/8]&(0x80>>(i%8)) == 0 {
			continue
		}
		if i >= numKeys {
			return fmt.Errorf("%w: bitmap marks key %d of %d", errInvalidMultiSignature, i, numKeys)
		}
		signers = append(signers, i)
	}
	if len(signers)*ed25519SignatureLen != len(sigs) {
		return fmt.Errorf("%w: %d signers but %d signatures", errInvalidMultiSignature, len(signers), len(sigs)/ed25519SignatureLen)
	}
	if len(signers) < threshold {
		return fmt.Errorf("%w: %d of %d required signatures", ErrInvalidSignature, len(signers), threshold)
	}

	for j, i := range signers {
		pk, err := factory.ToPublicKey(a.PublicKey[i*ed25519PublicKeyLen : (i+1)*ed25519PublicKeyLen])
		if err != nil {
			return err
		}
		if !pk.Verify(msg, sigs[j*ed25519SignatureLen:(j+1)*ed25519SignatureLen]) {
			return fmt.Errorf("%w: key %d", ErrInvalidSignature, i)
		}
	}
	return nil
}

type authenticatorBox struct {
	auth TransactionAuthenticator
}

func (b *authenticatorBox) UnmarshalBCS(d *codec.Deserializer) {
	switch index := d.UnpackVariant(); {
	case d.Errored():
	case index == Ed25519AuthenticatorIndex:
		b.auth = &Ed25519Authenticator{
			PublicKey: d.UnpackBytes(),
			Signature: d.UnpackBytes(),
		}
	case index == MultiEd25519AuthenticatorIndex:
		b.auth = &MultiEd25519Authenticator{
			PublicKey: d.UnpackBytes(),
			Signature: d.UnpackBytes(),
		}
	default:
		d.Fail(fmt.Errorf("%w: authenticator %d", codec.ErrUnknownVariant, index))
	}
}
