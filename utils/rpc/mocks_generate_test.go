// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

//go:generate go run github.com/golang/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/transport.go -mock_names=Transport=Transport . Transport
