// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing

import "github.com/diem/client-sdk-go/utils/constants"

// Hash domains
const (
	RawTransactionDomain = "RawTransaction"
	TransactionDomain    = "Transaction"
)

// HashPrefix returns SHA3-256("DIEM::" + domain). Prepending it to the bytes
// being hashed keeps structurally identical inputs of different domains from
// colliding.
func HashPrefix(domain string) []byte {
	return ComputeHash256([]byte(constants.ProtocolName + "::" + domain))
}
