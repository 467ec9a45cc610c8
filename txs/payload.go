// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"

	"github.com/diem/client-sdk-go/codec"
	"github.com/diem/client-sdk-go/ids"
)

// Transaction payload variant indices
const (
	WriteSetPayloadIndex uint32 = iota
	ScriptPayloadIndex
	ModulePayloadIndex
	ScriptFunctionPayloadIndex
)

var (
	errNilPayload = errors.New("nil transaction payload")

	_ TransactionPayload = (*Script)(nil)
	_ TransactionPayload = (*Module)(nil)
	_ TransactionPayload = (*ScriptFunction)(nil)
)

// TransactionPayload is the work a transaction asks the chain to perform.
// Write set payloads are only produced by the chain itself and are not
// supported.
type TransactionPayload interface {
	codec.Marshaler

	Index() uint32
}

// Script executes Move bytecode.
type Script struct {
	Code   []byte
	TyArgs []TypeTag
	Args   []TransactionArgument
}

func (*Script) Index() uint32 { return ScriptPayloadIndex }

func (p *Script) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(p.Index())
	s.PackBytes(p.Code)
	packTypeTags(s, p.TyArgs)
	packArguments(s, p.Args)
}

func (p *Script) unpackBody(d *codec.Deserializer) {
	p.Code = d.UnpackBytes()
	p.TyArgs = unpackTypeTags(d)
	p.Args = unpackArguments(d)
}

// Module publishes Move bytecode.
type Module struct {
	Code []byte
}

func (*Module) Index() uint32 { return ModulePayloadIndex }

func (p *Module) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(p.Index())
	s.PackBytes(p.Code)
}

// ModuleID names a published module.
type ModuleID struct {
	Address ids.AccountAddress
	Name    string
}

func (m *ModuleID) String() string {
	return fmt.Sprintf("%s::%s", m.Address, m.Name)
}

func (m *ModuleID) MarshalBCS(s *codec.Serializer) {
	s.PackFixedBytes(m.Address[:])
	s.PackStr(m.Name)
}

func (m *ModuleID) UnmarshalBCS(d *codec.Deserializer) {
	d.Unpack(&m.Address)
	m.Name = d.UnpackStr()
}

// ScriptFunction calls a public script function of a published module.
// Each argument is the canonical encoding of the value it carries.
type ScriptFunction struct {
	Module   ModuleID
	Function string
	TyArgs   []TypeTag
	Args     [][]byte
}

func (*ScriptFunction) Index() uint32 { return ScriptFunctionPayloadIndex }

func (p *ScriptFunction) MarshalBCS(s *codec.Serializer) {
	s.PackVariant(p.Index())
	s.Pack(&p.Module)
	s.PackStr(p.Function)
	packTypeTags(s, p.TyArgs)
	s.PackLen(len(p.Args))
	for _, arg := range p.Args {
		s.PackBytes(arg)
	}
}

func (p *ScriptFunction) unpackBody(d *codec.Deserializer) {
	d.Unpack(&p.Module)
	p.Function = d.UnpackStr()
	p.TyArgs = unpackTypeTags(d)
	length := d.UnpackLen()
	if d.Errored() || length == 0 {
		return
	}
	p.Args = make([][]byte, 0, length)
	for i := 0; i < length && !d.Errored(); i++ {
		p.Args = append(p.Args, d.UnpackBytes())
	}
}

type payloadBox struct {
	payload TransactionPayload
}

func (b *payloadBox) UnmarshalBCS(d *codec.Deserializer) {
	switch index := d.UnpackVariant(); {
	case d.Errored():
	case index == ScriptPayloadIndex:
		p := &Script{}
		p.unpackBody(d)
		b.payload = p
	case index == ModulePayloadIndex:
		b.payload = &Module{Code: d.UnpackBytes()}
	case index == ScriptFunctionPayloadIndex:
		p := &ScriptFunction{}
		p.unpackBody(d)
		b.payload = p
	default:
		d.Fail(fmt.Errorf("%w: transaction payload %d", codec.ErrUnknownVariant, index))
	}
}
