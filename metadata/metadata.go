// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metadata encodes the off-chain correlation data attached to
// payments.
package metadata

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/ids"
)

// Metadata variant indices
const (
	UndefinedIndex uint32 = iota
	GeneralIndex
	TravelRuleIndex
	UnstructuredBytesIndex
	RefundIndex
	CoinTradeIndex
	PaymentIndex
)

// Every versioned metadata kind is currently at version 0.
const version0 uint32 = 0

// travelRuleAttestSuffix terminates the message a sender signs to attest a
// travel rule payment.
const travelRuleAttestSuffix = "@@$$DIEM_ATTEST$$@@"

// ReferenceIDLen is the number of bytes in a payment reference id
const ReferenceIDLen = 16

var (
	errNilMetadata = errors.New("nil metadata")

	_ Metadata = Undefined{}
	_ Metadata = (*General)(nil)
	_ Metadata = (*TravelRule)(nil)
	_ Metadata = (*UnstructuredBytes)(nil)
	_ Metadata = (*Refund)(nil)
	_ Metadata = (*CoinTrade)(nil)
	_ Metadata = (*Payment)(nil)
)

// Metadata is attached to a payment so the receiver can correlate it with
// off-chain state.
type Metadata interface {
	codec.Marshaler

	Index() uint32
}

// Undefined carries no information.
type Undefined struct{}

func (Undefined) Index() uint32 { return UndefinedIndex }

func (m Undefined) MarshalBCS(s *codec.Serializer) { s.PackVariant(m.Index()) }

// General routes a payment between the sub-addresses of custodial accounts.
// Nil fields are absent.
type General struct {
	ToSubAddress    *ids.SubAddress
	FromSubAddress  *ids.SubAddress
	ReferencedEvent *uint64
}

// NewGeneral returns general metadata routing from [from] to [to]. The
// zero sub-address means "no sub-address".
func NewGeneral(from, to ids.SubAddress) *General {
	m := &General{}
	if !from.IsZero() {
		m.FromSubAddress = &from
	}
	if !to.IsZero() {
		m.ToSubAddress = &to
	}
	return m
}

func (*General) Index() uint32 { return GeneralIndex }

func (m *General) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(m.Index())
	s.PackVariant(version0)
	packSubAddress(s, m.ToSubAddress)
	packSubAddress(s, m.FromSubAddress)
	s.PackOption(m.ReferencedEvent != nil)
	if m.ReferencedEvent != nil {
		s.PackU64(*m.ReferencedEvent)
	}
}

func (m *General) unpackBody(d *codec.Deserializer) {
	m.ToSubAddress = unpackSubAddress(d)
	m.FromSubAddress = unpackSubAddress(d)
	if d.UnpackOption() {
		event := d.UnpackU64()
		m.ReferencedEvent = &event
	}
}

// TravelRule carries the off-chain reference id of a payment whose
// compliance data was exchanged off chain.
type TravelRule struct {
	OffChainReferenceID *string
}

func (*TravelRule) Index() uint32 { return TravelRuleIndex }

func (m *TravelRule) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(m.Index())
	s.PackVariant(version0)
	s.PackOption(m.OffChainReferenceID != nil)
	if m.OffChainReferenceID != nil {
		s.PackStr(*m.OffChainReferenceID)
	}
}

func (m *TravelRule) unpackBody(d *codec.Deserializer) {
	if d.UnpackOption() {
		id := d.UnpackStr()
		m.OffChainReferenceID = &id
	}
}

// UnstructuredBytes carries arbitrary bytes. Nil Bytes is absent.
type UnstructuredBytes struct {
	Bytes []byte
}

func (*UnstructuredBytes) Index() uint32 { return UnstructuredBytesIndex }

func (m *UnstructuredBytes) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(m.Index())
	s.PackOption(m.Bytes != nil)
	if m.Bytes != nil {
		s.PackBytes(m.Bytes)
	}
}

func (m *UnstructuredBytes) unpackBody(d *codec.Deserializer) {
	if d.UnpackOption() {
		m.Bytes = d.UnpackBytes()
	}
}

// RefundReason explains why a payment was returned.
type RefundReason uint32

const (
	OtherReason RefundReason = iota
	InvalidSubAddress
	UserInitiated
)

func (r RefundReason) String() string {
	switch r {
	case OtherReason:
		return "other"
	case InvalidSubAddress:
		return "invalid_subaddress"
	case UserInitiated:
		return "user_initiated"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(r))
	}
}

// Refund returns the payment committed at TransactionVersion.
type Refund struct {
	TransactionVersion uint64
	Reason             RefundReason
}

func NewRefund(transactionVersion uint64, reason RefundReason) *Refund {
	return &Refund{
		TransactionVersion: transactionVersion,
		Reason:             reason,
	}
}

func (*Refund) Index() uint32 { return RefundIndex }

func (m *Refund) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(m.Index())
	s.PackVariant(version0)
	s.PackU64(m.TransactionVersion)
	s.PackVariant(uint32(m.Reason))
}

func (m *Refund) unpackBody(d *codec.Deserializer) {
	m.TransactionVersion = d.UnpackU64()
	switch reason := RefundReason(d.UnpackVariant()); reason {
	case OtherReason, InvalidSubAddress, UserInitiated:
		m.Reason = reason
	default:
		if !d.Errored() {
			d.Fail(fmt.Errorf("%w: refund reason %d", codec.ErrUnknownVariant, uint32(reason)))
		}
	}
}

// CoinTrade references the off-chain trades settled by a payment.
type CoinTrade struct {
	TradeIDs []string
}

func (*CoinTrade) Index() uint32 { return CoinTradeIndex }

func (m *CoinTrade) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(m.Index())
	s.PackVariant(version0)
	s.PackLen(len(m.TradeIDs))
	for _, id := range m.TradeIDs {
		s.PackStr(id)
	}
}

func (m *CoinTrade) unpackBody(d *codec.Deserializer) {
	length := d.UnpackLen()
	if d.Errored() || length == 0 {
		return
	}
	m.TradeIDs = make([]string, 0, length)
	for i := 0; i < length && !d.Errored(); i++ {
		m.TradeIDs = append(m.TradeIDs, d.UnpackStr())
	}
}

// Payment references a payment negotiated off chain.
type Payment struct {
	ReferenceID [ReferenceIDLen]byte
}

func NewPayment(referenceID [ReferenceIDLen]byte) *Payment {
	return &Payment{ReferenceID: referenceID}
}

func (*Payment) Index() uint32 { return PaymentIndex }

func (m *Payment) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(m.Index())
	s.PackVariant(version0)
	s.PackFixedBytes(m.ReferenceID[:])
}

func (m *Payment) unpackBody(d *codec.Deserializer) {
	copy(m.ReferenceID[:], d.UnpackFixedBytes(ReferenceIDLen))
}

func packSubAddress(s *codec.Serializer, sub *ids.SubAddress) {
	s.PackOption(sub != nil)
	if sub != nil {
		s.PackBytes(sub[:])
	}
}

func unpackSubAddress(d *codec.Deserializer) *ids.SubAddress {
	if !d.UnpackOption() {
		return nil
	}
	offset := d.Offset()
	bytes := d.UnpackBytes()
	if d.Errored() {
		return nil
	}
	sub, err := ids.ToSubAddress(bytes)
	if err != nil {
		d.Add(&codec.DecodeError{Offset: offset, Err: err})
		return nil
	}
	return &sub
}

type versionedBody interface {
	Metadata
	unpackBody(d *codec.Deserializer)
}

type metadataBox struct {
	metadata Metadata
}

func (b *metadataBox) UnmarshalBCS(d *codec.Deserializer) {
	var (
		body      versionedBody
		versioned = true
	)
	switch index := d.UnpackVariant(); {
	case d.Errored():
		return
	case index == UndefinedIndex:
		b.metadata = Undefined{}
		return
	case index == GeneralIndex:
		body = &General{}
	case index == TravelRuleIndex:
		body = &TravelRule{}
	case index == UnstructuredBytesIndex:
		body = &UnstructuredBytes{}
		versioned = false
	case index == RefundIndex:
		body = &Refund{}
	case index == CoinTradeIndex:
		body = &CoinTrade{}
	case index == PaymentIndex:
		body = &Payment{}
	default:
		d.Fail(fmt.Errorf("%w: metadata %d", codec.ErrUnknownVariant, index))
		return
	}
	if versioned {
		if version := d.UnpackVariant(); !d.Errored() && version != version0 {
			d.Fail(fmt.Errorf("%w: metadata version %d", codec.ErrUnknownVariant, version))
			return
		}
	}
	body.unpackBody(d)
	b.metadata = body
}

// Encode returns the canonical encoding of [m].
func Encode(m Metadata) ([]byte, error) {
	if m == nil {
		return nil, errNilMetadata
	}
	return codec.Marshal(m)
}

// Decode parses the canonical encoding of a metadata value.
func Decode(bytes []byte) (Metadata, error) {
	box := metadataBox{}
	if err := codec.Unmarshal(bytes, &box); err != nil {
		return nil, fmt.Errorf("couldn't parse metadata: %w", err)
	}
	return box.metadata, nil
}

// FromHex decodes the hex metadata reported with payment events. It returns
// nil if the event carries no metadata.
func FromHex(str string) (Metadata, error) {
	str = strings.TrimPrefix(str, "0x")
	if str == "" {
		return nil, nil
	}
	bytes, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode metadata hex: %w", err)
	}
	return Decode(bytes)
}

// NewTravelRule returns the encoded travel rule metadata of a payment of
// [amount] from [sender] together with the message the sender's compliance
// key signs to attest it.
func NewTravelRule(offChainReferenceID string, sender ids.AccountAddress, amount uint64) ([]byte, []byte, error) {
	metadata, err := Encode(&TravelRule{OffChainReferenceID: &offChainReferenceID})
	if err != nil {
		return nil, nil, err
	}
	return metadata, TravelRuleSignatureMessage(metadata, sender, amount), nil
}

// TravelRuleSignatureMessage returns
// metadata || sender || little-endian u64 amount || "@@$$DIEM_ATTEST$$@@".
func TravelRuleSignatureMessage(metadata []byte, sender ids.AccountAddress, amount uint64) []byte {
	msg := make([]byte, 0, len(metadata)+ids.AddressLen+8+len(travelRuleAttestSuffix))
	msg = append(msg, metadata...)
	msg = append(msg, sender[:]...)
	msg = binary.LittleEndian.AppendUint64(msg, amount)
	return append(msg, travelRuleAttestSuffix...)
}
