// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"time"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/ids"
	"github.com/diem/client-sdk-go/utils/constants"
	"github.com/diem/client-sdk-go/utils/timer/mockable"
)

const (
	DefaultMaxGasAmount uint64 = 1_000_000
	DefaultGasUnitPrice uint64 = 0
	DefaultTTL                 = 30 * time.Second
)

var (
	_ codec.Marshaler   = (*RawTransaction)(nil)
	_ codec.Unmarshaler = (*RawTransaction)(nil)

	errNilRawTx = errors.New("nil raw transaction")
)

// RawTransaction is the unsigned body of a transaction.
type RawTransaction struct {
	Sender         ids.AccountAddress
	SequenceNumber uint64
	Payload        TransactionPayload
	MaxGasAmount   uint64
	GasUnitPrice   uint64
	GasCurrency    string
	// ExpirationTimestampSecs is the ledger time, in seconds, after which
	// the transaction can no longer be included.
	ExpirationTimestampSecs uint64
	ChainID                 constants.ChainID
}

func (tx *RawTransaction) MarshalBCS(s *codec.Serializer) {
	s.PackFixedBytes(tx.Sender[:])
	s.PackU64(tx.SequenceNumber)
	if tx.Payload == nil {
		s.Add(errNilPayload)
		return
	}
	s.Pack(tx.Payload)
	s.PackU64(tx.MaxGasAmount)
	s.PackU64(tx.GasUnitPrice)
	s.PackStr(tx.GasCurrency)
	s.PackU64(tx.ExpirationTimestampSecs)
	s.PackU8(uint8(tx.ChainID))
}

func (tx *RawTransaction) UnmarshalBCS(d *codec.Deserializer) {
	d.Unpack(&tx.Sender)
	tx.SequenceNumber = d.UnpackU64()
	box := payloadBox{}
	d.Unpack(&box)
	tx.Payload = box.payload
	tx.MaxGasAmount = d.UnpackU64()
	tx.GasUnitPrice = d.UnpackU64()
	tx.GasCurrency = d.UnpackStr()
	tx.ExpirationTimestampSecs = d.UnpackU64()
	tx.ChainID = constants.ChainID(d.UnpackU8())
}

// Expiration returns the expiration timestamp as a time.
func (tx *RawTransaction) Expiration() time.Time {
	return time.Unix(int64(tx.ExpirationTimestampSecs), 0)
}

type rawTxOptions struct {
	maxGasAmount uint64
	gasUnitPrice uint64
	gasCurrency  string
	expiration   uint64
	ttl          time.Duration
	clock        *mockable.Clock
}

// Option overrides a default of NewRawTransaction
type Option func(*rawTxOptions)

func WithMaxGasAmount(amount uint64) Option {
	return func(o *rawTxOptions) { o.maxGasAmount = amount }
}

func WithGasUnitPrice(price uint64) Option {
	return func(o *rawTxOptions) { o.gasUnitPrice = price }
}

func WithGasCurrency(code string) Option {
	return func(o *rawTxOptions) { o.gasCurrency = code }
}

// WithExpirationTimestamp sets an absolute expiration, in seconds. It takes
// precedence over WithTTL.
func WithExpirationTimestamp(secs uint64) Option {
	return func(o *rawTxOptions) { o.expiration = secs }
}

// WithTTL sets how long from now the transaction stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(o *rawTxOptions) { o.ttl = ttl }
}

// WithClock sets the clock the expiration is computed from.
func WithClock(clock *mockable.Clock) Option {
	return func(o *rawTxOptions) { o.clock = clock }
}

// NewRawTransaction returns a transaction from [sender] with
// [sequenceNumber] carrying [payload] for [chainID]. Unless overridden the
// transaction pays at most DefaultMaxGasAmount at DefaultGasUnitPrice in
// the default currency and expires DefaultTTL from now.
func NewRawTransaction(
	sender ids.AccountAddress,
	sequenceNumber uint64,
	payload TransactionPayload,
	chainID constants.ChainID,
	options ...Option,
) *RawTransaction {
	o := rawTxOptions{
		maxGasAmount: DefaultMaxGasAmount,
		gasUnitPrice: DefaultGasUnitPrice,
		gasCurrency:  constants.DefaultCurrency,
		ttl:          DefaultTTL,
		clock:        &mockable.Clock{},
	}
	for _, option := range options {
		option(&o)
	}
	expiration := o.expiration
	if expiration == 0 {
		expiration = uint64(o.clock.Time().Add(o.ttl).Unix())
	}
	return &RawTransaction{
		Sender:                  sender,
		SequenceNumber:          sequenceNumber,
		Payload:                 payload,
		MaxGasAmount:            o.maxGasAmount,
		GasUnitPrice:            o.gasUnitPrice,
		GasCurrency:             o.gasCurrency,
		ExpirationTimestampSecs: expiration,
		ChainID:                 chainID,
	}
}
