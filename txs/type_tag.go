// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/ids"
)

// Type tag variant indices
const (
	TypeTagBoolIndex uint32 = iota
	TypeTagU8Index
	TypeTagU64Index
	TypeTagU128Index
	TypeTagAddressIndex
	TypeTagSignerIndex
	TypeTagVectorIndex
	TypeTagStructIndex
)

var (
	errNilTypeTag = errors.New("nil type tag")

	_ TypeTag = TypeTagBool{}
	_ TypeTag = TypeTagU8{}
	_ TypeTag = TypeTagU64{}
	_ TypeTag = TypeTagU128{}
	_ TypeTag = TypeTagAddress{}
	_ TypeTag = TypeTagSigner{}
	_ TypeTag = (*TypeTagVector)(nil)
	_ TypeTag = (*TypeTagStruct)(nil)
)

// TypeTag is a Move type used as a generic argument of a script.
type TypeTag interface {
	codec.Marshaler

	// Index returns the variant index written before the value.
	Index() uint32
}

type (
	TypeTagBool    struct{}
	TypeTagU8      struct{}
	TypeTagU64     struct{}
	TypeTagU128    struct{}
	TypeTagAddress struct{}
	TypeTagSigner  struct{}
)

func (TypeTagBool) Index() uint32    { return TypeTagBoolIndex }
func (TypeTagU8) Index() uint32      { return TypeTagU8Index }
func (TypeTagU64) Index() uint32     { return TypeTagU64Index }
func (TypeTagU128) Index() uint32    { return TypeTagU128Index }
func (TypeTagAddress) Index() uint32 { return TypeTagAddressIndex }
func (TypeTagSigner) Index() uint32  { return TypeTagSignerIndex }

func (t TypeTagBool) MarshalBCS(s *codec.Serializer)    { s.PackVariant(t.Index()) }
func (t TypeTagU8) MarshalBCS(s *codec.Serializer)      { s.PackVariant(t.Index()) }
func (t TypeTagU64) MarshalBCS(s *codec.Serializer)     { s.PackVariant(t.Index()) }
func (t TypeTagU128) MarshalBCS(s *codec.Serializer)    { s.PackVariant(t.Index()) }
func (t TypeTagAddress) MarshalBCS(s *codec.Serializer) { s.PackVariant(t.Index()) }
func (t TypeTagSigner) MarshalBCS(s *codec.Serializer)  { s.PackVariant(t.Index()) }

// TypeTagVector is vector<Elem>.
type TypeTagVector struct {
	Elem TypeTag
}

func (*TypeTagVector) Index() uint32 { return TypeTagVectorIndex }

func (t *TypeTagVector) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(t.Index())
	packTypeTag(s, t.Elem)
}

type TypeTagStruct struct {
	StructTag
}

func (*TypeTagStruct) Index() uint32 { return TypeTagStructIndex }

func (t *TypeTagStruct) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(t.Index())
	s.Pack(&t.StructTag)
}

// StructTag names a published Move struct, for example
// 0x1::XUS::XUS.
type StructTag struct {
	Address    ids.AccountAddress
	Module     string
	Name       string
	TypeParams []TypeTag
}

// CurrencyTypeTag returns the type tag of the currency [code] published
// under the core code address.
func CurrencyTypeTag(code string) TypeTag {
	return &TypeTagStruct{StructTag: StructTag{
		Address: ids.CoreCodeAddress,
		Module:  code,
		Name:    code,
	}}
}

func (t *StructTag) String() string {
	return fmt.Sprintf("%s::%s::%s", t.Address, t.Module, t.Name)
}

func (t *StructTag) MarshalBCS(s *codec.Serializer) {
	s.PackFixedBytes(t.Address[:])
	s.PackStr(t.Module)
	s.PackStr(t.Name)
	packTypeTags(s, t.TypeParams)
}

func (t *StructTag) UnmarshalBCS(d *codec.Deserializer) {
	d.Unpack(&t.Address)
	t.Module = d.UnpackStr()
	t.Name = d.UnpackStr()
	t.TypeParams = unpackTypeTags(d)
}

func packTypeTag(s *codec.Serializer, tag TypeTag) {
	if tag == nil {
		s.Add(errNilTypeTag)
		return
	}
	s.Pack(tag)
}

func packTypeTags(s *codec.Serializer, tags []TypeTag) {
	s.PackLen(len(tags))
	for _, tag := range tags {
		packTypeTag(s, tag)
	}
}

// typeTagBox decodes whichever variant the input holds.
type typeTagBox struct {
	tag TypeTag
}

func (b *typeTagBox) UnmarshalBCS(d *codec.Deserializer) {
	switch index := d.UnpackVariant(); {
	case d.Errored():
	case index == TypeTagBoolIndex:
		b.tag = TypeTagBool{}
	case index == TypeTagU8Index:
		b.tag = TypeTagU8{}
	case index == TypeTagU64Index:
		b.tag = TypeTagU64{}
	case index == TypeTagU128Index:
		b.tag = TypeTagU128{}
	case index == TypeTagAddressIndex:
		b.tag = TypeTagAddress{}
	case index == TypeTagSignerIndex:
		b.tag = TypeTagSigner{}
	case index == TypeTagVectorIndex:
		b.tag = &TypeTagVector{Elem: unpackTypeTag(d)}
	case index == TypeTagStructIndex:
		tag := &TypeTagStruct{}
		d.Unpack(&tag.StructTag)
		b.tag = tag
	default:
		d.Fail(fmt.Errorf("%w: type tag %d", codec.ErrUnknownVariant, index))
	}
}

func unpackTypeTag(d *codec.Deserializer) TypeTag {
	box := typeTagBox{}
	d.Unpack(&box)
	return box.tag
}

func unpackTypeTags(d *codec.Deserializer) []TypeTag {
	length := d.UnpackLen()
	if d.Errored() || length == 0 {
		return nil
	}
	tags := make([]TypeTag, 0, length)
	for i := 0; i < length && !d.Errored(); i++ {
		tags = append(tags, unpackTypeTag(d))
	}
	return tags
}
